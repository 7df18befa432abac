package test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/portfolio/internal/auth"
	"github.com/2beens/portfolio/internal/uploads"
)

func testPNG(width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func (s *IntegrationTestSuite) TestUploads() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", "screenshot.png")
	require.NoError(t, err)
	_, err = part.Write(testPNG(1200, 300))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequestWithContext(ctx, "POST", serverEndpoint+"/api/admin/uploads", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(auth.TokenHeader, s.adminToken)

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)

	var upload uploads.Upload
	s.decode(resp, http.StatusCreated, &upload)
	assert.Equal(t, "image/png", upload.MimeType)
	assert.Equal(t, 800, upload.Width)
	assert.Equal(t, 200, upload.Height)
	assert.Equal(t, "screenshot.png", upload.OriginalName)
	require.True(t, strings.HasPrefix(upload.URL, serverEndpoint+"/uploads/"))

	served, err := s.httpClient.Get(upload.URL)
	require.NoError(t, err)
	assert.Equal(t, "image/png", served.Header.Get("Content-Type"))
	assert.Equal(t, http.StatusOK, s.status(served))

	thumb, err := s.httpClient.Get(upload.ThumbnailURL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, s.status(thumb))

	var uploadsResp uploads.UploadsResponse
	s.decode(s.doRequest(ctx, "GET", "/api/admin/uploads", s.adminToken, nil), http.StatusOK, &uploadsResp)
	assert.NotZero(t, uploadsResp.Total)

	assert.Equal(t, http.StatusOK, s.status(s.doRequest(ctx, "DELETE", "/api/admin/uploads/"+upload.ID, s.adminToken, nil)))

	gone, err := s.httpClient.Get(upload.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, s.status(gone))
}
