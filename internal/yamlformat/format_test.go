package yamlformat

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radiostore/internal/adapter/secondary/storage"
	"radiostore/internal/board"
	"radiostore/internal/domain"
	"radiostore/internal/logging"
)

var (
	withCategories    = domain.Board{Type: domain.BoardTX16S, Firmware: domain.FirmwareEdgeTX27}
	withoutCategories = domain.Board{Type: domain.BoardTX16S, Firmware: domain.FirmwareEdgeTX29}
)

// populatedRadio returns an aggregate that failed loads must leave untouched.
func populatedRadio() domain.RadioData {
	return domain.RadioData{
		Models:     []domain.Model{{Name: "Existing", Filename: "old.yml", Used: true}},
		Categories: []domain.CategoryData{{Name: "Planes"}},
		GeneralSettings: domain.GeneralSettings{
			CurrModelFilename: "old.yml",
			Variant:           domain.Board{Type: domain.BoardX9D, Firmware: domain.FirmwareOpenTX23},
		},
	}
}

func newFormat(files map[string]string) (*Format, *storage.MemoryMedium) {
	mem := storage.NewMemoryMedium()
	for path, content := range files {
		mem.Put(path, []byte(content))
	}
	return New(mem, board.NewRegistry()), mem
}

func TestLoadModelWithCategories(t *testing.T) {
	f, _ := newFormat(map[string]string{"models/foo.yml": `header: {name: "Foo"}`})

	var radio domain.RadioData
	out := f.Load("models/foo.yml", withCategories, &radio)

	require.Equal(t, domain.OutcomeWarning, out.Kind, out.Message)
	assert.NotEmpty(t, out.Message)
	assert.Contains(t, out.Message, "please check all radio and model settings")
	assert.Contains(t, out.Message, "models/foo.yml")
	assert.NoError(t, out.Err)

	require.Len(t, radio.Models, 1)
	m := radio.Models[0]
	assert.Equal(t, "Foo", m.Name)
	assert.Equal(t, "models/foo.yml", m.Filename)
	assert.True(t, m.Used)
	assert.Equal(t, 0, m.ModelIndex)
	assert.Equal(t, 0, m.Category)

	assert.Equal(t, []domain.CategoryData{{Name: NewCategoryName}}, radio.Categories)
	assert.Equal(t, 0, radio.GeneralSettings.CurrModelIndex)
	assert.Equal(t, "models/foo.yml", radio.GeneralSettings.CurrModelFilename)
	assert.Equal(t, withCategories, radio.GeneralSettings.Variant)
	assert.NoError(t, radio.Validate())
}

func TestLoadModelWithoutCategories(t *testing.T) {
	f, _ := newFormat(map[string]string{"foo.yml": "header:\n  name: Foo\n"})

	radio := populatedRadio()
	radio.Categories = nil
	out := f.Load("foo.yml", withoutCategories, &radio)

	require.Equal(t, domain.OutcomeWarning, out.Kind, out.Message)
	assert.Empty(t, radio.Categories)
	require.Len(t, radio.Models, 1)
	assert.Equal(t, "Foo", radio.Models[0].Name)
	assert.Equal(t, withoutCategories, radio.GeneralSettings.Variant)
}

func TestLoadRecordsCurrentBoardNotSource(t *testing.T) {
	f, _ := newFormat(map[string]string{"x9d.yml": "semver: 2.3.15\nheader: {name: FromX9D}\n"})

	var radio domain.RadioData
	out := f.Load("x9d.yml", withCategories, &radio)

	require.True(t, out.OK())
	assert.Equal(t, withCategories, radio.GeneralSettings.Variant)
	assert.Equal(t, "2.3.15", radio.Models[0].SourceVersion)
}

func TestLoadSynthesizesCategoryOnEveryImport(t *testing.T) {
	f, _ := newFormat(map[string]string{
		"a.yml": "header: {name: A}",
		"b.yml": "header: {name: B}",
	})

	var radio domain.RadioData
	require.True(t, f.Load("a.yml", withCategories, &radio).OK())
	require.True(t, f.Load("b.yml", withCategories, &radio).OK())

	assert.Len(t, radio.Categories, 2)
	require.Len(t, radio.Models, 1)
	assert.Equal(t, "B", radio.Models[0].Name)
	assert.Equal(t, "b.yml", radio.GeneralSettings.CurrModelFilename)
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		name    string
		content *string
		board   domain.Board
		kind    error
		message string
	}{
		{"missing file", nil, withCategories, domain.ErrIO, "cannot read bad.yml"},
		{"parser rejects bytes", ptr("header: [unclosed"), withCategories, domain.ErrFormat, "file bad.yml is not a valid format"},
		{"empty file", ptr(""), withCategories, domain.ErrFormat, "file bad.yml is not a valid format"},
		{"sequence root", ptr("- header\n- board\n"), withCategories, domain.ErrFormat, "file bad.yml is not a valid format"},
		{"scalar root", ptr("just text"), withCategories, domain.ErrFormat, "file bad.yml is not a valid format"},
		{"radio settings", ptr("board: X9D\nsemver: 2.9.0\n"), withCategories, domain.ErrUnsupportedContent, "file bad.yml appears to contain radio settings and importing is unsupported"},
		{"empty mapping", ptr("{}"), withCategories, domain.ErrUnsupportedContent, "unable to determine content type for file bad.yml"},
		{"no known keys", ptr("timers: {}\n"), withCategories, domain.ErrUnsupportedContent, "unable to determine content type for file bad.yml"},
		{"schema error", ptr("header: {name: Foo}\ntimers: {0: {mode: BOGUS}}\n"), withCategories, domain.ErrSchema, "cannot load bad.yml: timers[0]: unknown mode"},
		{"unknown board", ptr("header: {name: Foo}"), domain.Board{Type: "x99", Firmware: domain.FirmwareEdgeTX29}, domain.ErrUnknownBoard, "cannot use board x99/edgetx-2.9 for bad.yml"},
		{"unknown firmware", ptr("header: {name: Foo}"), domain.Board{Type: domain.BoardX9D, Firmware: "v1"}, domain.ErrInvalidFirmware, "cannot use board x9d/v1 for bad.yml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := map[string]string{}
			if tt.content != nil {
				files["bad.yml"] = *tt.content
			}
			f, _ := newFormat(files)

			radio := populatedRadio()
			out := f.Load("bad.yml", tt.board, &radio)

			assert.Equal(t, domain.OutcomeError, out.Kind)
			assert.False(t, out.OK())
			assert.ErrorIs(t, out.Err, tt.kind)
			assert.Contains(t, out.Message, tt.message)
			assert.Contains(t, out.Message, "bad.yml")
			assert.Equal(t, populatedRadio(), radio, "failed loads must not touch the radio")
		})
	}
}

func TestWriteAlwaysFails(t *testing.T) {
	f, mem := newFormat(map[string]string{"foo.yml": "header: {name: Foo}"})

	var radio domain.RadioData
	require.True(t, f.Load("foo.yml", withCategories, &radio).OK())
	before := radio

	for _, r := range []*domain.RadioData{&radio, {}} {
		out := f.Write("/sdcard", withCategories, r)
		assert.Equal(t, domain.OutcomeError, out.Kind)
		assert.ErrorIs(t, out.Err, domain.ErrUnimplemented)
		assert.Contains(t, out.Message, "writing /sdcard is not implemented yet")
	}

	assert.Zero(t, mem.Writes())
	assert.False(t, mem.Has("/sdcard"))
	assert.Equal(t, before, radio)
}

func ptr(s string) *string {
	return &s
}

func TestNilRadioFailsWithoutPanic(t *testing.T) {
	f, mem := newFormat(map[string]string{"foo.yml": "header: {name: Foo}"})

	out := f.Write("/sdcard", withCategories, nil)
	assert.Equal(t, domain.OutcomeError, out.Kind)
	assert.ErrorIs(t, out.Err, domain.ErrUnimplemented)

	out = f.Load("foo.yml", withCategories, nil)
	assert.Equal(t, domain.OutcomeError, out.Kind)
	assert.Contains(t, out.Message, "foo.yml")
	assert.Zero(t, mem.Writes())
}

func TestLoadUsesFirstDocument(t *testing.T) {
	var buf bytes.Buffer
	logging.SetOutput(&buf)
	logging.SetVerbosity(2)
	t.Cleanup(func() {
		logging.SetOutput(os.Stderr)
		logging.SetVerbosity(0)
	})

	f, _ := newFormat(map[string]string{"multi.yml": "header: {name: First}\n---\nheader: {name: Second}\n"})

	var radio domain.RadioData
	out := f.Load("multi.yml", withoutCategories, &radio)
	require.True(t, out.OK(), out.Message)
	require.Len(t, radio.Models, 1)
	assert.Equal(t, "First", radio.Models[0].Name)
	assert.Contains(t, buf.String(), "file multi.yml holds more than one document")
}
