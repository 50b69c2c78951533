package forms

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/mbolis/quick-forms/log"
	"github.com/mbolis/quick-forms/model"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Definitions holds the form documents shipped with the binary.
//
//go:embed definitions
var Definitions embed.FS

const DefinitionsDir = "definitions"

var documentExts = map[string]bool{".json": true, ".yaml": true, ".yml": true}

// document is the on-disk shape of a form definition. The form key is
// not part of it: it comes from the document name.
type document struct {
	Title       string          `json:"title" yaml:"title"`
	Description string          `json:"description" yaml:"description"`
	Fields      []fieldDocument `json:"fields" yaml:"fields"`
}

type fieldDocument struct {
	Name        string           `json:"name" yaml:"name"`
	Label       string           `json:"label" yaml:"label"`
	Type        string           `json:"type" yaml:"type"`
	Required    bool             `json:"required" yaml:"required"`
	Placeholder *string          `json:"placeholder" yaml:"placeholder"`
	Options     []optionDocument `json:"options" yaml:"options"`
}

type optionDocument struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

type LoadResult struct {
	Loaded  []string
	Skipped []string
	// Errors aggregates one *model.MalformedDocumentError per failed document.
	Errors error
}

type Loader struct {
	catalogue *Catalogue
}

func NewLoader(catalogue *Catalogue) *Loader {
	return &Loader{catalogue}
}

// Load creates a form for every document in dir whose key is not yet in
// the catalogue. Forms already present are left untouched, so running it
// on every start is safe. A document that cannot be loaded is logged and
// reported in the result; only failing to list dir is returned as an error.
func (l *Loader) Load(ctx context.Context, fsys fs.FS, dir string) (LoadResult, error) {
	result := LoadResult{}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return result, errors.Wrap(err, "forms.loader.read_dir")
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !documentExts[strings.ToLower(path.Ext(e.Name()))] {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		key := strings.TrimSuffix(name, path.Ext(name))
		logger := log.WithFields(log.Fields{"form": key, "document": name})

		exists, err := l.catalogue.Exists(ctx, key)
		if err != nil {
			return result, errors.Wrap(err, "forms.loader.exists")
		}
		if exists {
			logger.Debug("form already exists, skipping")
			result.Skipped = append(result.Skipped, key)
			continue
		}

		form, err := readDocument(fsys, path.Join(dir, name), key)
		if err == nil {
			_, err = l.catalogue.Create(ctx, form)
		}
		if errors.Is(err, model.ErrConflict) {
			logger.Debug("form created concurrently, skipping")
			result.Skipped = append(result.Skipped, key)
			continue
		}
		if err != nil {
			logger.WithError(err).Error("could not load form document")
			result.Errors = multierror.Append(result.Errors, &model.MalformedDocumentError{Name: name, Err: err})
			continue
		}

		logger.Info("loaded form definition")
		result.Loaded = append(result.Loaded, key)
	}

	log.Infof("form loading complete: %d loaded, %d skipped, %d failed",
		len(result.Loaded), len(result.Skipped), countErrors(result.Errors))
	return result, nil
}

func readDocument(fsys fs.FS, name, key string) (model.Form, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return model.Form{}, err
	}
	return ParseDocument(key, path.Ext(name), data)
}

// ParseDocument decodes a JSON or YAML form document (selected by ext)
// into a form with the given key.
func ParseDocument(key, ext string, data []byte) (model.Form, error) {
	doc := document{}
	var err error
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return model.Form{}, errors.Wrap(err, "parse")
	}

	form := model.Form{
		Key:         key,
		Title:       doc.Title,
		Description: doc.Description,
		Fields:      make([]model.Field, len(doc.Fields)),
	}
	for i, fd := range doc.Fields {
		field := model.Field{
			Name:        fd.Name,
			Label:       fd.Label,
			Type:        model.FieldType(fd.Type),
			Required:    fd.Required,
			Placeholder: fd.Placeholder,
		}
		if field.Type == "" {
			field.Type = model.FieldText
		}
		if len(fd.Options) > 0 {
			field.Options = make([]model.Option, len(fd.Options))
			for j, o := range fd.Options {
				field.Options[j] = model.Option{Value: o.Value, Label: o.Label}
			}
		}
		form.Fields[i] = field
	}
	return form, nil
}

func countErrors(err error) int {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		return merr.Len()
	}
	return 0
}
