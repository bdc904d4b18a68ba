package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	t.Parallel()

	t.Run("length and alphabet", func(t *testing.T) {
		for i := 0; i < 256; i++ {
			code, err := generateCode()
			require.NoError(t, err)
			require.Len(t, code, codeLength)

			for _, c := range code {
				require.True(t, strings.ContainsRune(codeAlphabet, c), "unexpected character %q in %q", c, code)
			}
		}
	})

	t.Run("codes vary", func(t *testing.T) {
		seen := make(map[string]struct{})
		for i := 0; i < 64; i++ {
			code, err := generateCode()
			require.NoError(t, err)
			seen[code] = struct{}{}
		}
		// 64 draws from a 36^6 space colliding down to a handful would
		// indicate a broken generator.
		require.Greater(t, len(seen), 60)
	})
}
