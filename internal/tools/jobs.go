package tools

import (
	"context"
	"fmt"

	"github.com/dgallion1/humantools/internal/photo"
	"github.com/dgallion1/humantools/internal/pipeline"
)

// EditParams is the job payload for bulk photo edits.
type EditParams struct {
	Settings []photo.Settings
}

// JobHandlers wires the long-running tools into the job pipeline.
func (t *Toolkit) JobHandlers() map[pipeline.Kind]pipeline.Handler {
	return map[pipeline.Kind]pipeline.Handler{
		pipeline.KindEditPhotos: t.editJob,
		pipeline.KindSlideshow:  t.slideshowJob,
	}
}

func (t *Toolkit) editJob(ctx context.Context, job *pipeline.Job) (pipeline.Result, error) {
	p, ok := job.Params().(EditParams)
	if !ok {
		return pipeline.Result{}, fmt.Errorf("edit job: unexpected params %T", job.Params())
	}
	inputs := job.Inputs()
	job.SetTotal(len(inputs))
	out, err := t.EditPhotos(ctx, inputs, p.Settings, job.IncrProcessed)
	if err != nil {
		return pipeline.Result{}, err
	}
	return toResult(out), nil
}

func (t *Toolkit) slideshowJob(ctx context.Context, job *pipeline.Job) (pipeline.Result, error) {
	p, ok := job.Params().(SlideshowParams)
	if !ok {
		return pipeline.Result{}, fmt.Errorf("slideshow job: unexpected params %T", job.Params())
	}
	inputs := job.Inputs()
	if p.Order != nil {
		job.SetTotal(p.Order.Len())
	}
	out, err := t.Slideshow(ctx, inputs, p, job.SetRatio)
	if err != nil {
		return pipeline.Result{}, err
	}
	return toResult(out), nil
}

func toResult(o Output) pipeline.Result {
	return pipeline.Result{Name: o.Name, ContentType: o.ContentType, Data: o.Data}
}
