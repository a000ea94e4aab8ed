package cerr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryFromCode_RangeBoundaries(t *testing.T) {
	cases := []struct {
		code string
		want Category
	}{
		{ErrCodeConfigNotFound, CategoryConfig},
		{ErrCodeConfigInvalid, CategoryConfig},
		{ErrCodeFileNotFound, CategoryIO},
		{ErrCodeIOError, CategoryIO},
		{ErrCodeInvalidMagic, CategoryCodec},
		{ErrCodeChecksumMismatch, CategoryCodec},
		{ErrCodeInvalidTransition, CategoryValidation},
		{ErrCodeDimensionMismatch, CategoryValidation},
		{ErrCodeInternal, CategoryInternal},
		{ErrCodeSyncInProgress, CategoryInternal},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, categoryFromCode(c.code), "code %s", c.code)
	}
}

func TestCategoryFromCode_ShortCode_DefaultsToInternal(t *testing.T) {
	assert.Equal(t, CategoryInternal, categoryFromCode("bad"))
	assert.Equal(t, CategoryInternal, categoryFromCode(""))
}

func TestSeverityFromCode_CodecCorruption_IsWarning(t *testing.T) {
	assert.Equal(t, SeverityWarning, severityFromCode(ErrCodeInvalidMagic))
	assert.Equal(t, SeverityWarning, severityFromCode(ErrCodeUnsupportedVersion))
	assert.Equal(t, SeverityWarning, severityFromCode(ErrCodeChecksumMismatch))
}

func TestSeverityFromCode_ValidationAndOther_AreError(t *testing.T) {
	assert.Equal(t, SeverityError, severityFromCode(ErrCodeInvalidFormat))
	assert.Equal(t, SeverityError, severityFromCode(ErrCodeMissingRequiredField))
	assert.Equal(t, SeverityError, severityFromCode(ErrCodeConnectionsInBody))
	assert.Equal(t, SeverityError, severityFromCode(ErrCodeInternal))
	assert.Equal(t, SeverityError, severityFromCode(ErrCodeQueryParseError))
}

func TestIsRetryableCode_OnlySyncInProgress(t *testing.T) {
	assert.True(t, isRetryableCode(ErrCodeSyncInProgress))

	notRetryable := []string{
		ErrCodeConfigNotFound,
		ErrCodeFileNotFound,
		ErrCodeInvalidMagic,
		ErrCodeChecksumMismatch,
		ErrCodeInvalidTransition,
		ErrCodeInternal,
		"",
	}
	for _, code := range notRetryable {
		assert.False(t, isRetryableCode(code), "code %q", code)
	}
}
