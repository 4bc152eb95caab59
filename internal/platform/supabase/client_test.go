package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keepsakehq/keepsake-api/internal/config"
)

func testStorageConfig(baseURL string) config.StorageConfig {
	return config.StorageConfig{
		SupabaseURL:            baseURL,
		ServiceRoleKey:         "service-role-key",
		Bucket:                 "memories",
		SignedURLExpirySeconds: 900,
	}
}

func TestSignUpload(t *testing.T) {
	t.Parallel()

	t.Run("signs upload and builds URLs", func(t *testing.T) {
		t.Parallel()

		var gotPath, gotAuth, gotAPIKey string
		var gotBody map[string]any

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			gotAPIKey = r.Header.Get("apikey")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

			// The real API returns the signed path relative to /storage/v1.
			signed := strings.TrimPrefix(r.URL.Path, "/storage/v1") + "?token=abc"
			_ = json.NewEncoder(w).Encode(map[string]string{"signedURL": signed})
		}))
		defer server.Close()

		client := NewClient(testStorageConfig(server.URL), server.Client(), nil)
		result, err := client.SignUpload(context.Background(), "holiday.jpg")

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(gotPath, "/storage/v1/object/sign/memories/"))
		assert.Equal(t, "Bearer service-role-key", gotAuth)
		assert.Equal(t, "service-role-key", gotAPIKey)
		assert.Equal(t, float64(900), gotBody["expires_in"])

		assert.True(t, strings.HasSuffix(result.Path, ".jpg"))
		assert.Equal(t, server.URL+"/storage/v1/object/sign/memories/"+result.Path+"?token=abc", result.UploadURL)
		assert.Equal(t, server.URL+"/storage/v1/object/public/memories/"+result.Path, result.PublicURL)
		assert.Equal(t, 900, result.ExpiresIn)
	})

	t.Run("accepts legacy signed_url field", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"signed_url": "/object/sign/memories/x?token=abc"})
		}))
		defer server.Close()

		client := NewClient(testStorageConfig(server.URL), server.Client(), nil)
		result, err := client.SignUpload(context.Background(), "note.txt")

		require.NoError(t, err)
		assert.Equal(t, server.URL+"/storage/v1/object/sign/memories/x?token=abc", result.UploadURL)
	})

	t.Run("generates distinct object names", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"signedURL": "/x?token=abc"})
		}))
		defer server.Close()

		client := NewClient(testStorageConfig(server.URL), server.Client(), nil)
		a, err := client.SignUpload(context.Background(), "holiday.jpg")
		require.NoError(t, err)
		b, err := client.SignUpload(context.Background(), "holiday.jpg")
		require.NoError(t, err)

		assert.NotEqual(t, a.Path, b.Path)
	})

	t.Run("surfaces API errors", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message":"bucket not found"}`, http.StatusNotFound)
		}))
		defer server.Close()

		client := NewClient(testStorageConfig(server.URL), server.Client(), nil)
		_, err := client.SignUpload(context.Background(), "holiday.jpg")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("rejects response without a signed URL", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{})
		}))
		defer server.Close()

		client := NewClient(testStorageConfig(server.URL), server.Client(), nil)
		_, err := client.SignUpload(context.Background(), "holiday.jpg")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing signed URL")
	})
}
