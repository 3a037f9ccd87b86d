package studio

import (
	"sync/atomic"
)

// Presenter is the only way the orchestrator touches the page.
type Presenter interface {
	SetLoading(visible bool)
	ShowCard(image GeneratedImage)
	ShowError(message string)
}

// PagePresenter keeps page state in memory: gallery, banners and the
// loading indicator.
type PagePresenter struct {
	Gallery *Gallery
	Banners *Banners
	loading atomic.Bool
}

func NewPagePresenter(banners *Banners) *PagePresenter {
	if banners == nil {
		banners = NewBanners(BannerDuration, nil)
	}
	return &PagePresenter{Gallery: &Gallery{}, Banners: banners}
}

func (p *PagePresenter) SetLoading(visible bool) {
	p.loading.Store(visible)
}

func (p *PagePresenter) Loading() bool {
	return p.loading.Load()
}

func (p *PagePresenter) ShowCard(image GeneratedImage) {
	p.Gallery.AddCard(image)
}

func (p *PagePresenter) ShowError(message string) {
	p.Banners.Show(message)
}
