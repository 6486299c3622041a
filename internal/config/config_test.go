package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetReturnsFirstNonEmpty(t *testing.T) {
	t.Setenv("FUNCSCAN_TEST_PRIMARY", "")
	t.Setenv("FUNCSCAN_TEST_FALLBACK", "value")

	assert.Equal(t, "value", Get("FUNCSCAN_TEST_PRIMARY", "FUNCSCAN_TEST_FALLBACK"))
}

func TestGetPrefersEarlierKeys(t *testing.T) {
	t.Setenv("FUNCSCAN_TEST_PRIMARY", "first")
	t.Setenv("FUNCSCAN_TEST_FALLBACK", "second")

	assert.Equal(t, "first", Get("FUNCSCAN_TEST_PRIMARY", "FUNCSCAN_TEST_FALLBACK"))
}

func TestGetEmpty(t *testing.T) {
	assert.Equal(t, "", Get("", "FUNCSCAN_TEST_UNSET_KEY"))
}
