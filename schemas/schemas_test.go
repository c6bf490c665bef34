package schemas

import (
	"encoding/json"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	for _, schemaFile := range []string{FitScore, ResumeDocument, JobPosting} {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := Files.ReadFile(schemaFile)
			require.NoError(t, err, "should be able to read schema file")

			var v map[string]interface{}
			err = json.Unmarshal(data, &v)
			require.NoError(t, err, "schema file should be valid JSON: %s", schemaFile)
			assert.Equal(t, "object", v["type"])
			assert.Contains(t, v, "$schema")
		})
	}
}

func TestEmbeddedFiles_OnlySchemas(t *testing.T) {
	matches, err := fs.Glob(Files, "*")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{FitScore, ResumeDocument, JobPosting}, matches)
}
