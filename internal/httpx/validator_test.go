package httpx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	BookID string `validate:"required,volumeid"`
	Title  string `validate:"notblank,max=10"`
	Email  string `validate:"omitempty,email"`
}

func TestValidateStruct(t *testing.T) {
	assert.Nil(t, ValidateStruct(sampleRequest{BookID: "zyTCAlFPjgYC", Title: "ok"}))

	details := ValidateStruct(sampleRequest{BookID: "a/b", Title: "   ", Email: "nope"})
	fields := map[string]string{}
	for _, d := range details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "BookID must be a valid catalog volume id", fields["bookID"])
	assert.Equal(t, "Title is required", fields["title"])
	assert.Equal(t, "Email must be a valid email address", fields["email"])
}

func TestIsVolumeID(t *testing.T) {
	assert.True(t, IsVolumeID("abc-DEF_123"))
	assert.False(t, IsVolumeID(""))
	assert.False(t, IsVolumeID("a:b"))
}
