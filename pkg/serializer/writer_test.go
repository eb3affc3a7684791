// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package serializer

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type decisionView struct {
	Prior  string `json:"prior" yaml:"prior"`
	Next   string `json:"next" yaml:"next"`
	Create bool   `json:"create" yaml:"create"`
	Reseat bool   `json:"reseat" yaml:"reseat"`
}

func testDecision() decisionView {
	return decisionView{
		Prior:  "v1.2.0",
		Next:   "v1.3.0",
		Create: true,
	}
}

func TestSupportedFormats(t *testing.T) {
	formats := SupportedFormats()
	assert.Contains(t, formats, "json")
	assert.Contains(t, formats, "yaml")
	assert.Contains(t, formats, "table")
}

func TestFormatIsUnknown(t *testing.T) {
	assert.False(t, FormatJSON.IsUnknown())
	assert.False(t, FormatYAML.IsUnknown())
	assert.False(t, FormatTable.IsUnknown())
	assert.True(t, Format("xml").IsUnknown())
	assert.True(t, Format("").IsUnknown())
}

func TestSerializeJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatJSON, &buf)
	defer w.Close()

	require.NoError(t, w.Serialize(testDecision()))

	var got decisionView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, testDecision(), got)
}

func TestSerializeYAML(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatYAML, &buf)
	defer w.Close()

	require.NoError(t, w.Serialize(testDecision()))

	var got decisionView
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, testDecision(), got)
}

func TestSerializeTable(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatTable, &buf)
	defer w.Close()

	require.NoError(t, w.Serialize(testDecision()))

	out := buf.String()
	assert.Contains(t, out, "FIELD")
	assert.Contains(t, out, "Prior")
	assert.Contains(t, out, "v1.2.0")
	assert.Contains(t, out, "Next")
	assert.Contains(t, out, "v1.3.0")
}

func TestSerializeTableNested(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatTable, &buf)
	defer w.Close()

	data := struct {
		Decision decisionView
		Rules    []string
	}{
		Decision: testDecision(),
		Rules:    []string{"base-image", "config-as-code"},
	}
	require.NoError(t, w.Serialize(data))

	out := buf.String()
	assert.Contains(t, out, "Decision.Prior")
	assert.Contains(t, out, "Rules.[0]")
	assert.Contains(t, out, "base-image")
}

func TestUnknownFormatDefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(Format("bogus"), &buf)
	defer w.Close()

	require.NoError(t, w.Serialize(testDecision()))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(buf.String()), "{"))
}

func TestNewFileWriterOrStdout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decision.json")
	w := NewFileWriterOrStdout(FormatJSON, path)
	require.NoError(t, w.Serialize(testDecision()))
	require.NoError(t, w.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var got decisionView
	require.NoError(t, json.Unmarshal(content, &got))
	assert.Equal(t, testDecision(), got)
}

func TestNewFileWriterOrStdoutEmptyPath(t *testing.T) {
	w := NewFileWriterOrStdout(FormatJSON, "   ")
	require.NotNil(t, w)
	assert.NoError(t, w.Close())
}

func TestCloseIdempotent(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatJSON, &buf)
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}
