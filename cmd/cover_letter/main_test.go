package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cover-letter/internal/export"
)

const testLetter = `Jane Roe
jane@example.com

March 7, 2025

Globex
Springfield

Dear Hiring Manager,

I am writing to apply for the platform engineer role.

I have run payment systems at scale.

Sincerely,

Jane Roe`

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestWriteDocument_Directory(t *testing.T) {
	dir := t.TempDir()
	doc := &export.Document{Name: "Cover-Letter-Globex.txt", Data: []byte(testLetter)}

	path, err := writeDocument(dir, doc)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Cover-Letter-Globex.txt"), path)

	nested := filepath.Join(dir, "out", "letter.txt")
	path, err = writeDocument(nested, doc)
	require.NoError(t, err)
	assert.Equal(t, nested, path)
	data, err := os.ReadFile(nested)
	require.NoError(t, err)
	assert.Equal(t, testLetter, string(data))
}

func TestGenerateCommand_RequiresJob(t *testing.T) {
	_, err := execute(t, "generate", "--company", "Globex")
	assert.ErrorContains(t, err, "job")
}

func TestWriteDocument_DefaultsToCurrentDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path, err := writeDocument("", &export.Document{Name: "Cover-Letter-JaneRoe.txt", Data: []byte("hi")})
	require.NoError(t, err)
	assert.Equal(t, "Cover-Letter-JaneRoe.txt", path)
	assert.FileExists(t, filepath.Join(dir, path))
}

func TestLoadRules(t *testing.T) {
	rules, err := loadRules("")
	require.NoError(t, err)
	assert.NotEmpty(t, rules.Rules)

	bad := writeFile(t, t.TempDir(), "rules.json", []byte(`{"rules": "nope"}`))
	_, err = loadRules(bad)
	assert.Error(t, err)

	_, err = loadRules(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "letter.txt", []byte(testLetter))

	out, err := execute(t, "export", "--in", in, "--format", "docx", "--company", "", "--name", "Jane Roe", "--out", dir)
	require.NoError(t, err)

	want := filepath.Join(dir, "Cover-Letter-JaneRoe.docx")
	assert.Contains(t, out, want)
	assert.FileExists(t, want)
}

func TestExportCommand_UnknownFormat(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "letter.txt", []byte(testLetter))

	_, err := execute(t, "export", "--in", in, "--format", "odt", "--out", dir)
	assert.Error(t, err)
}

func TestExtractCommand(t *testing.T) {
	dir := t.TempDir()
	doc, err := export.Letter(export.FormatPDF, testLetter, "Globex", "Jane Roe")
	require.NoError(t, err)
	cv := writeFile(t, dir, "cv.pdf", doc.Data)

	out, err := execute(t, "extract", "--cv", cv)
	require.NoError(t, err)
	assert.Contains(t, out, "Jane Roe")
	assert.Contains(t, out, "Sincerely,")
}
