package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJobRecord(t *testing.T) {
	data := `{
		"id": "job-1",
		"source": "crawler",
		"content": {
			"job": {
				"title": "APIエンジニア",
				"description": "・API設計",
				"requirements": "【必須】\n・SQL経験",
				"salary": 600
			},
			"company": {"company_features": "SaaSを提供しています。"}
		}
	}`

	rec, err := DecodeJobRecord([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, "job-1", rec.ID)
	assert.Equal(t, "APIエンジニア", rec.Title)
	assert.Equal(t, "・API設計", rec.Description)
	assert.Equal(t, "【必須】\n・SQL経験", rec.Requirements)
	assert.Equal(t, "SaaSを提供しています。", rec.CompanyFeatures)
	assert.Nil(t, rec.Summary)
}

func TestDecodeJobRecord_CoercesMalformedFields(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no content", `{"id": 1}`},
		{"null content", `{"id": 1, "content": null}`},
		{"content is a string", `{"id": 1, "content": "oops"}`},
		{"job is a list", `{"id": 1, "content": {"job": [1, 2]}}`},
		{"fields are not strings", `{"id": 1, "content": {"job": {"title": 5, "description": null, "requirements": {"a": 1}}, "company": "x"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := DecodeJobRecord([]byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, "1", rec.ID)
			assert.Empty(t, rec.Title)
			assert.Empty(t, rec.Description)
			assert.Empty(t, rec.Requirements)
			assert.Empty(t, rec.CompanyFeatures)
		})
	}
}

func TestDecodeJobRecord_NotAnObject(t *testing.T) {
	_, err := DecodeJobRecord([]byte(`"just a string"`))
	assert.Error(t, err)

	_, err = DecodeJobRecord([]byte(`null`))
	assert.Error(t, err)
}

func TestDecodeJobRecord_ExistingSummary(t *testing.T) {
	rec, err := DecodeJobRecord([]byte(`{"id": "a", "content": {"summary": "old"}}`))
	require.NoError(t, err)
	require.NotNil(t, rec.Summary)
	assert.Equal(t, "old", *rec.Summary)
}

func TestJobRecord_MarshalJSON_OnlySummaryChanges(t *testing.T) {
	data := `{"id":"job-1","source":"crawler <b>","content":{"job":{"title":"T","salary":600},"company":{"company_features":"x"},"tags":["a","b"]}}`

	rec, err := DecodeJobRecord([]byte(data))
	require.NoError(t, err)
	rec.SetSummary("『T』 works:A&B")

	out, err := rec.MarshalJSON()
	require.NoError(t, err)

	var before, after map[string]any
	require.NoError(t, json.Unmarshal([]byte(data), &before))
	require.NoError(t, json.Unmarshal(out, &after))

	afterContent := after["content"].(map[string]any)
	assert.Equal(t, "『T』 works:A&B", afterContent["summary"])

	delete(afterContent, "summary")
	assert.Equal(t, before, after)
	assert.Contains(t, string(out), `A&B`)
	assert.Contains(t, string(out), `<b>`)
}

func TestJobRecord_MarshalJSON_CreatesContent(t *testing.T) {
	rec, err := DecodeJobRecord([]byte(`{"id": "x"}`))
	require.NoError(t, err)
	rec.SetSummary("s")

	out, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": "x", "content": {"summary": "s"}}`, string(out))
}

func TestJobRecord_MarshalJSON_NonObjectContentUntouched(t *testing.T) {
	rec, err := DecodeJobRecord([]byte(`{"id": "x", "content": "raw"}`))
	require.NoError(t, err)
	rec.SetSummary("s")

	out, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": "x", "content": "raw"}`, string(out))
}

func TestNewJobRecord(t *testing.T) {
	rec, err := NewJobRecord("42", []byte(`{"job": {"title": "SRE"}, "extra": true}`))
	require.NoError(t, err)
	assert.Equal(t, "42", rec.ID)
	assert.Equal(t, "SRE", rec.Title)

	rec.SetSummary("『SRE』")
	content, err := rec.Content()
	require.NoError(t, err)
	assert.JSONEq(t, `{"job": {"title": "SRE"}, "extra": true, "summary": "『SRE』"}`, string(content))
}

func TestNewJobRecord_EmptyContent(t *testing.T) {
	rec, err := NewJobRecord("7", nil)
	require.NoError(t, err)

	content, err := rec.Content()
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(content))
}
