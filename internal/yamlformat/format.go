// Package yamlformat loads radio data from the YAML storage format.
//
// A load reads one file through a domain.StorageMedium, parses it, classifies
// its top-level shape and, for model documents, maps it onto a fresh model
// that is committed to the caller's RadioData only once mapping succeeds.
// Writing is not available yet and always fails without touching storage.
package yamlformat

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"radiostore/internal/domain"
	"radiostore/internal/logging"
)

// NewCategoryName labels the category synthesized for an imported model.
const NewCategoryName = "New category"

// Format is the load/write orchestrator of the YAML storage format.
type Format struct {
	storage  domain.StorageMedium
	resolver domain.CapabilityResolver
	service  *domain.ImportService
}

// New creates a Format reading through storage and resolving boards with resolver.
func New(storage domain.StorageMedium, resolver domain.CapabilityResolver) *Format {
	return &Format{
		storage:  storage,
		resolver: resolver,
		service:  domain.NewImportService(),
	}
}

// Load imports the file at path into radio for the current board.
// radio is left untouched unless the outcome is OK.
func (f *Format) Load(path string, board domain.Board, radio *domain.RadioData) domain.Outcome {
	op := uuid.New().String()
	logging.Debugf("load[%s] %s for board %s", op, path, board)

	outcome := f.load(path, board, radio)
	switch outcome.Kind {
	case domain.OutcomeError:
		logging.Warnf("load[%s] failed: %s", op, outcome.Message)
	default:
		logging.Infof("load[%s] %s: %s", op, outcome.Kind, path)
	}
	return outcome
}

func (f *Format) load(path string, board domain.Board, radio *domain.RadioData) domain.Outcome {
	if radio == nil {
		return domain.Failed(fmt.Errorf("cannot load %s: no radio data to load into", path))
	}

	caps, err := f.resolver.Resolve(board)
	if err != nil {
		return boardFailed(path, board, err)
	}

	data, err := f.storage.ReadAll(path)
	if err != nil {
		return domain.Failed(&domain.Error{
			Kind: domain.ErrIO,
			Path: path,
			Msg:  fmt.Sprintf("cannot read %s", path),
			Err:  err,
		})
	}

	var doc yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return domain.Failed(&domain.Error{
			Kind: domain.ErrFormat,
			Path: path,
			Msg:  fmt.Sprintf("file %s is not a valid format", path),
			Err:  err,
		})
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		logging.Debugf("file %s holds more than one document, only the first is loaded", path)
	}

	root := documentRoot(&doc)
	if root == nil || root.Kind != yaml.MappingNode {
		return domain.Failed(&domain.Error{
			Kind: domain.ErrFormat,
			Path: path,
			Msg:  fmt.Sprintf("file %s is not a valid format", path),
		})
	}

	switch Classify(root) {
	case ContentModel:
		logging.Debugf("file %s appears to contain model data", path)
		return f.loadModel(path, board, caps, root, radio)
	case ContentRadioSettings:
		return domain.Failed(&domain.Error{
			Kind: domain.ErrUnsupportedContent,
			Path: path,
			Msg:  fmt.Sprintf("file %s appears to contain radio settings and importing is unsupported", path),
		})
	default:
		return domain.Failed(&domain.Error{
			Kind: domain.ErrUnsupportedContent,
			Path: path,
			Msg:  fmt.Sprintf("unable to determine content type for file %s", path),
		})
	}
}

func (f *Format) loadModel(path string, board domain.Board, caps domain.Capabilities, root *yaml.Node, radio *domain.RadioData) domain.Outcome {
	var model domain.Model
	if err := MapToModel(root, caps, &model); err != nil {
		return domain.Failed(&domain.Error{
			Kind: domain.ErrSchema,
			Path: path,
			Msg:  fmt.Sprintf("cannot load %s", path),
			Err:  err,
		})
	}

	// Without knowing the source radio, converting between boards causes more
	// issues than it solves, so the variant only records the current board.
	plan := f.service.PlanSingleModel(model, path, board, caps, NewCategoryName)
	plan.Apply(radio)

	return domain.Warned(fmt.Sprintf("please check all radio and model settings of %s as no conversion could be performed", path))
}

// Write stores radio at path. It is under development and always fails;
// every file is rendered in memory first, so storage is never touched.
func (f *Format) Write(path string, board domain.Board, radio *domain.RadioData) domain.Outcome {
	logging.Warnf("write %s: format ignored, under development", path)

	if radio == nil {
		return writeFailed(path, nil)
	}

	caps, err := f.resolver.Resolve(board)
	if err != nil {
		return boardFailed(path, board, err)
	}
	for _, m := range radio.Models {
		if _, err := ModelToYAML(m, caps); err != nil {
			return writeFailed(path, err)
		}
	}
	return writeFailed(path, nil)
}

func writeFailed(path string, err error) domain.Outcome {
	return domain.Failed(&domain.Error{
		Kind: domain.ErrUnimplemented,
		Path: path,
		Msg:  fmt.Sprintf("writing %s is not implemented yet", path),
		Err:  err,
	})
}

func boardFailed(path string, board domain.Board, err error) domain.Outcome {
	kind := domain.ErrUnknownBoard
	if errors.Is(err, domain.ErrInvalidFirmware) {
		kind = domain.ErrInvalidFirmware
	}
	return domain.Failed(&domain.Error{
		Kind: kind,
		Path: path,
		Msg:  fmt.Sprintf("cannot use board %s for %s", board, path),
		Err:  err,
	})
}
