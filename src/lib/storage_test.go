package lib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKeyFromURL(t *testing.T) {
	base := "https://files.example.com/storage/v1/object/public/camphub"

	t.Run("round trips a key", func(t *testing.T) {
		u := PublicObjectURL(base, "payment-slips/12/slip.jpg")
		assert.Equal(t, base+"/payment-slips/12/slip.jpg", u)

		key, err := ObjectKeyFromURL(base, u)
		require.NoError(t, err)
		assert.Equal(t, "payment-slips/12/slip.jpg", key)
	})

	t.Run("tolerates trailing slash on base", func(t *testing.T) {
		key, err := ObjectKeyFromURL(base+"/", base+"/campsites/1/a.png")
		require.NoError(t, err)
		assert.Equal(t, "campsites/1/a.png", key)
	})

	t.Run("rejects other hosts", func(t *testing.T) {
		_, err := ObjectKeyFromURL(base, "https://evil.example.com/storage/v1/object/public/camphub/a.png")
		assert.ErrorIs(t, err, ErrForeignObjectURL)
	})

	t.Run("rejects other buckets", func(t *testing.T) {
		_, err := ObjectKeyFromURL(base, "https://files.example.com/storage/v1/object/public/other/a.png")
		assert.ErrorIs(t, err, ErrForeignObjectURL)
	})

	t.Run("rejects the bare base", func(t *testing.T) {
		_, err := ObjectKeyFromURL(base, base+"/")
		assert.ErrorIs(t, err, ErrForeignObjectURL)
	})
}
