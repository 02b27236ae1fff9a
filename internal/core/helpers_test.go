package core

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

type fakeUpstreams struct {
	stability      *httptest.Server
	products       *httptest.Server
	stabilityCalls int32
	productCalls   int32
	productStatus  int
	productBody    string
	lastPrompt     atomic.Value
}

func newFakeUpstreams(t *testing.T) *fakeUpstreams {
	t.Helper()
	f := &fakeUpstreams{productStatus: http.StatusOK, productBody: `{"docs":[]}`}
	generated := testPNG(t, 32, 16)

	f.stability = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.stabilityCalls, 1)
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Errorf("failed to parse multipart form: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.lastPrompt.Store(r.FormValue("prompt"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"image":         base64.StdEncoding.EncodeToString(generated),
			"finish_reason": "SUCCESS",
		})
	}))
	t.Cleanup(f.stability.Close)

	f.products = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.productCalls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.productStatus)
		_, _ = w.Write([]byte(f.productBody))
	}))
	t.Cleanup(f.products.Close)
	return f
}

func (f *fakeUpstreams) prompt() string {
	prompt, _ := f.lastPrompt.Load().(string)
	return prompt
}

func newTestConfig(t *testing.T, upstreams *fakeUpstreams) *ServiceConfig {
	t.Helper()
	mr := miniredis.RunT(t)
	config := &ServiceConfig{
		PublicBaseURL: "http://localhost:8080",
		Database:      Database{Type: "sqlite", ConnectionString: ":memory:"},
		Redis:         Redis{Address: mr.Addr()},
	}
	if upstreams != nil {
		config.Stability = Stability{APIKey: "stability-key", BaseURL: upstreams.stability.URL}
		config.ProductSearch = ProductSearch{APIKey: "rapid-key", BaseURL: upstreams.products.URL}
	}
	applyDefaults(config)
	return config
}

func newTestService(t *testing.T, config *ServiceConfig) *CoreService {
	t.Helper()
	service, err := NewCoreService(config)
	if err != nil {
		t.Fatalf("NewCoreService error: %v", err)
	}
	t.Cleanup(func() { _ = service.Close() })
	return service
}

func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 8), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

// headerOnlyPNG returns a PNG whose header declares width x height pixels without any image data.
func headerOnlyPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	ihdr := make([]byte, 17)
	copy(ihdr, "IHDR")
	binary.BigEndian.PutUint32(ihdr[4:8], uint32(width))
	binary.BigEndian.PutUint32(ihdr[8:12], uint32(height))
	ihdr[12] = 1 // bit depth

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)-4))
	buf.Write(ihdr)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(ihdr))
	return buf.Bytes()
}
