package studio

import (
	"context"

	"github.com/aurum-labs/jewel-studio/common/logger"
)

// Orchestrator runs one design: 2D preview, gallery card, 3D model, load.
type Orchestrator struct {
	form      Form
	client    GenerationClient
	loader    ModelLoader
	presenter Presenter
}

func NewOrchestrator(form Form, client GenerationClient, loader ModelLoader, presenter Presenter) *Orchestrator {
	return &Orchestrator{
		form:      form,
		client:    client,
		loader:    loader,
		presenter: presenter,
	}
}

// GenerateDesign reads the form and runs the two generation calls in
// order. The loading indicator is hidden on every path; a failure is shown
// as a banner and returned.
func (o *Orchestrator) GenerateDesign(ctx context.Context) error {
	request := o.form.Values()

	o.presenter.SetLoading(true)
	defer o.presenter.SetLoading(false)

	if err := o.generate(ctx, request); err != nil {
		logger.Warnf(ctx, "design %q failed: %s", request.Prompt, err.Error())
		o.presenter.ShowError(err.Error())
		return err
	}
	return nil
}

func (o *Orchestrator) generate(ctx context.Context, request DesignRequest) error {
	image, err := o.client.GenerateImage(ctx, request.Prompt)
	if err != nil {
		return err
	}
	o.presenter.ShowCard(GeneratedImage{
		EncodedData:  image.Image,
		Format:       image.Format,
		SourcePrompt: request.Prompt,
		Material:     request.Material,
	})

	model, err := o.client.GenerateModel(ctx, request.ModelPrompt(), request.JewelryType)
	if err != nil {
		return err
	}
	if model.ModelUrl == "" {
		return nil
	}
	return o.loader.Load(ctx, model.ModelUrl)
}
