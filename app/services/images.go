package services

import (
	"context"

	"github.com/beautydb/backoffice/app/imagestore"
	"github.com/beautydb/backoffice/pkg/metrics"
)

// Upload slots accepted per aggregate.
var (
	ProductSlots = []imagestore.Slot{imagestore.PrimaryImage, imagestore.SecondaryImage, imagestore.ThirdImage}
	ServiceSlots = []imagestore.Slot{imagestore.BeforeImage, imagestore.AfterImage}
	MediaSlots   = []imagestore.Slot{imagestore.Image}
)

// imageSlot binds an upload slot to the model field holding its URL.
type imageSlot struct {
	slot  imagestore.Slot
	field **string
}

// imagePlan reconciles a request's uploads with the outcome of its write.
// On commit the URLs replaced by new uploads are deleted; on abort the new
// uploads are.
type imagePlan struct {
	store      *imagestore.Store
	uploads    imagestore.Uploads
	superseded []string
}

func newImagePlan(store *imagestore.Store, uploads imagestore.Uploads) *imagePlan {
	return &imagePlan{store: store, uploads: uploads}
}

// apply points every slot with an upload at the uploaded file and remembers
// the URL it replaced.
func (p *imagePlan) apply(slots ...imageSlot) {
	p.superseded = nil
	for _, s := range slots {
		f, ok := p.uploads[s.slot]
		if !ok {
			continue
		}
		url := p.store.URL(f)
		if old := *s.field; old != nil && *old != "" && *old != url {
			p.superseded = append(p.superseded, *old)
		}
		*s.field = &url
	}
}

// release schedules the deletion of urls once the rows referencing them are
// gone.
func (p *imagePlan) release(urls ...string) {
	p.superseded = append(p.superseded, urls...)
}

func (p *imagePlan) commit(ctx context.Context) {
	p.store.Delete(ctx, p.superseded...)
}

func (p *imagePlan) abort(ctx context.Context) {
	p.store.Discard(ctx, p.uploads.Files()...)
}

// settle records the write and reconciles images with its outcome.
func (p *imagePlan) settle(ctx context.Context, aggregate, op string, err error) {
	metrics.RecordWrite(aggregate, op, err)
	if err != nil {
		p.abort(ctx)
		return
	}
	p.commit(ctx)
}
