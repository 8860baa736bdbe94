package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusContacted, StatusQualified, StatusConverted} {
		assert.True(t, ValidStatus(s), s)
	}
	for _, s := range []string{"", "all", "archived", "Pending", "CONTACTED"} {
		assert.False(t, ValidStatus(s), s)
	}
}

func TestProcessed(t *testing.T) {
	assert.False(t, (&Submission{Status: StatusPending}).Processed())
	assert.True(t, (&Submission{Status: StatusContacted}).Processed())
	assert.True(t, (&Submission{Status: StatusQualified}).Processed())
	assert.True(t, (&Submission{Status: StatusConverted}).Processed())
}
