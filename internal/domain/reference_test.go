package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateBookingReference(t *testing.T) {
	seen := make(map[string]struct{})

	for i := 0; i < 100; i++ {
		ref, err := GenerateBookingReference()
		require.NoError(t, err)

		require.True(t, strings.HasPrefix(ref, ReferencePrefix))
		require.Len(t, ref, len(ReferencePrefix)+ReferenceLength)
		require.True(t, IsValidBookingReference(ref))

		// Неоднозначные символы исключены из алфавита
		body := strings.TrimPrefix(ref, ReferencePrefix)
		require.NotContains(t, body, "I")
		require.NotContains(t, body, "O")
		require.NotContains(t, body, "0")
		require.NotContains(t, body, "1")

		seen[ref] = struct{}{}
	}

	require.Greater(t, len(seen), 90, "references must be effectively unique")
}

func TestIsValidBookingReference(t *testing.T) {
	require.True(t, IsValidBookingReference("BK-ABCDEF"))
	require.True(t, IsValidBookingReference("BK-234567"))

	require.False(t, IsValidBookingReference(""))
	require.False(t, IsValidBookingReference("ABCDEF"))
	require.False(t, IsValidBookingReference("BK-ABCDE"))
	require.False(t, IsValidBookingReference("BK-ABCDEFG"))
	require.False(t, IsValidBookingReference("BK-ABCDE0"), "0 is not in the alphabet")
	require.False(t, IsValidBookingReference("BK-abcdef"), "lowercase is not in the alphabet")
}
