// Command jewel-cli runs one design against a jewel-studio server without a
// browser: it generates the 2D preview and the 3D model, loads the model
// into a headless viewport and writes the gallery images to disk.
package main

import (
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/aurum-labs/jewel-studio/common/image"
	"github.com/aurum-labs/jewel-studio/service"
	"github.com/aurum-labs/jewel-studio/studio"
)

type options struct {
	server   string
	prompt   string
	kind     string
	material string
	out      string
	frames   int
	width    int
	height   int
	timeout  time.Duration
}

func parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("jewel-cli", flag.ContinueOnError)
	opts := &options{}
	fs.StringVar(&opts.server, "server", "http://localhost:3000", "jewel-studio base URL")
	fs.StringVar(&opts.prompt, "prompt", "", "design description")
	fs.StringVar(&opts.kind, "type", "ring", "jewelry type")
	fs.StringVar(&opts.material, "material", "gold", "material")
	fs.StringVar(&opts.out, "out", ".", "directory for the generated images")
	fs.IntVar(&opts.frames, "frames", 60, "frames to render after the model loads")
	fs.IntVar(&opts.width, "width", 800, "viewport width")
	fs.IntVar(&opts.height, "height", 600, "viewport height")
	fs.DurationVar(&opts.timeout, "timeout", studio.DefaultRequestTimeout, "timeout for each generation call")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if strings.TrimSpace(opts.prompt) == "" {
		return nil, fmt.Errorf("-prompt is required")
	}
	if opts.frames < 0 {
		return nil, fmt.Errorf("-frames must not be negative")
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *options) error {
	renderer := &studio.HeadlessRenderer{}
	viewport, err := studio.NewViewport(&studio.Canvas{Width: opts.width, Height: opts.height}, renderer)
	if err != nil {
		return err
	}

	httpClient := service.GetHttpClient()
	client := studio.NewHTTPGenerationClient(opts.server, httpClient)
	client.Timeout = opts.timeout
	loader := studio.NewGLTFLoader(viewport, &studio.HTTPFetcher{BaseURL: opts.server, Client: httpClient})
	presenter := studio.NewPagePresenter(nil)
	form := studio.NewFormState(studio.DesignRequest{
		Prompt:      strings.TrimSpace(opts.prompt),
		JewelryType: opts.kind,
		Material:    opts.material,
	})
	bindings := studio.NewBindings(studio.NewOrchestrator(form, client, loader, presenter), viewport)

	fmt.Printf("generating %q (%s, %s) via %s\n", form.Values().Prompt, opts.kind, opts.material, opts.server)
	designErr := bindings.Submit(ctx)

	// the preview card survives a failed 3D step, so write it either way
	if err := writeGallery(presenter.Gallery, opts.out); err != nil {
		return err
	}
	if designErr != nil {
		return designErr
	}

	for i := 0; i < opts.frames; i++ {
		if err := viewport.Frame(); err != nil {
			return err
		}
	}
	if model := viewport.CurrentModel(); model != nil {
		fmt.Println(model.String())
	} else {
		fmt.Println("no 3D model returned")
	}
	camera := viewport.Camera()
	fmt.Printf("rendered %d frames at %dx%d, camera at (%.1f, %.1f, %.1f)\n",
		renderer.FrameCount(), renderer.Width, renderer.Height, camera.Position[0], camera.Position[1], camera.Position[2])
	return nil
}

func writeGallery(gallery *studio.Gallery, dir string) error {
	cards := gallery.Cards()
	if len(cards) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for i, card := range cards {
		data, err := base64.StdEncoding.DecodeString(card.Image.EncodedData)
		if err != nil {
			return fmt.Errorf("decode image %d: %w", i, err)
		}
		name := fmt.Sprintf("design-%s%s", card.CreatedAt.Format("20060102-150405"), image.ExtensionFromMimeType("image/"+card.Image.Format))
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return err
		}
		if info, err := image.InspectBase64(card.Image.EncodedData); err == nil {
			fmt.Printf("wrote %s (%dx%d %s)\n", path, info.Width, info.Height, info.Format)
		} else {
			fmt.Printf("wrote %s (%d bytes)\n", path, len(data))
		}
	}
	return nil
}
