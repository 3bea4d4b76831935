package attrs

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestExtractString(t *testing.T) {
	id := uuid.MustParse("3f2b8a6e-7c1d-4e5f-9a0b-1c2d3e4f5a6b")
	attrs := []any{
		"company_number", "SC123456",
		"company_id", id,
		"count", 3,
		"dangling",
	}

	assert.Equal(t, "SC123456", ExtractString(attrs, "company_number"))
	assert.Equal(t, id.String(), ExtractString(attrs, "company_id"))
	assert.Empty(t, ExtractString(attrs, "count"))
	assert.Empty(t, ExtractString(attrs, "dangling"))
	assert.Empty(t, ExtractString(attrs, "missing"))
	assert.Empty(t, ExtractString(nil, "company_number"))
}
