package schemas

import (
	"encoding/json"
	"testing"

	"github.com/mycv/cvgen/internal/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentSchema_ValidJSON(t *testing.T) {
	var v interface{}
	err := json.Unmarshal(Document, &v)
	assert.NoError(t, err, "schema file should be valid JSON")

	_, err = schemas.Compile("document", Document)
	assert.NoError(t, err, "schema should compile")
}

func TestDocumentSchema_AcceptsMinimalDocument(t *testing.T) {
	doc := `{
		"language": "de", "firstName": "Ada", "lastName": "Lovelace", "jobTitle": "", "bio": "",
		"email": "ada@example.com", "phone": "1", "address": "Main Street, 3000 Bern", "birthday": "03.02.1990",
		"picture": "", "workExperiences": [], "education": [], "projects": [], "skills": [], "templateOptions": {}
	}`
	require.NoError(t, schemas.ValidateBytes(Document, []byte(doc)))
}

func TestDocumentSchema_RejectsMissingEndDate(t *testing.T) {
	doc := `{
		"language": "de", "firstName": "Ada", "lastName": "Lovelace", "jobTitle": "", "bio": "",
		"email": "ada@example.com", "phone": "1", "address": "Main Street, 3000 Bern", "birthday": "03.02.1990",
		"picture": "", "education": [], "projects": [], "skills": [], "templateOptions": {},
		"workExperiences": [{"title": "x", "location": "", "startDate": "01.2020", "endDate": "",
			"institution": "", "description": "", "links": []}]
	}`
	assert.Error(t, schemas.ValidateBytes(Document, []byte(doc)))
}
