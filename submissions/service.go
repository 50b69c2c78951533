// Package submissions records what users send through a form.
package submissions

import (
	"context"
	"time"

	"github.com/mbolis/quick-forms/forms"
	"github.com/mbolis/quick-forms/log"
	"github.com/mbolis/quick-forms/model"
)

type Service struct {
	forms *forms.Catalogue
	store Store
	now   func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now as the source of submission timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(catalogue *forms.Catalogue, store Store, opts ...Option) *Service {
	s := &Service{forms: catalogue, store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates payload against the form named formKey and, if it is
// accepted, stores it on behalf of submittedBy. Nothing is stored when
// validation fails; the returned *model.ValidationError lists every
// offending field.
func (s *Service) Submit(ctx context.Context, formKey string, payload model.Payload, submittedBy string) (model.Submission, error) {
	form, err := s.forms.Get(ctx, formKey)
	if err != nil {
		return model.Submission{}, err
	}

	if errs := forms.Validate(form, payload); errs != nil {
		log.WithFields(log.Fields{"form": formKey, "errors": len(errs)}).Debug("submission rejected")
		return model.Submission{}, &model.ValidationError{Message: "Validation failed", Errors: errs}
	}

	if payload == nil {
		payload = model.Payload{}
	}
	sub := model.Submission{
		FormKey:     formKey,
		Data:        payload,
		SubmittedAt: s.now().UTC(),
		SubmittedBy: submittedBy,
	}
	err = s.store.Insert(ctx, &sub)
	if err != nil {
		return model.Submission{}, err
	}

	log.WithFields(log.Fields{"form": formKey, "submission": sub.ID, "by": submittedBy}).Info("submission stored")
	return sub, nil
}

func (s *Service) Get(ctx context.Context, id int64) (model.Submission, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]model.Submission, error) {
	return s.store.List(ctx)
}

// ListByKey returns the submissions for formKey, most recent first. The
// form does not need to exist any more.
func (s *Service) ListByKey(ctx context.Context, formKey string) ([]model.Submission, error) {
	return s.store.ListByKey(ctx, formKey)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"submission": id}).Info("submission deleted")
	return nil
}
