package scoring

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/stwalsh4118/seattle-energy/internal/features"
	"github.com/xh3b4sd/tracer"
)

// maxResponseBytes bounds how much of a scorer reply is read.
const maxResponseBytes = 1 << 16

// RemotePredictor scores rows through a pipeline served over HTTP by a
// sidecar process next to the trained artifact. The sidecar receives
//
//	{"columns_version": "v1", "instances": [{"OSEBuildingID": null, ...}]}
//
// and answers with the bare predicted value as text.
type RemotePredictor struct {
	url      string
	cli      *http.Client
	encoding features.Encoding
}

// NewRemotePredictor creates a client for the scorer at url.
func NewRemotePredictor(url string, timeout time.Duration, enc features.Encoding) *RemotePredictor {
	return &RemotePredictor{
		url:      url,
		cli:      &http.Client{Timeout: timeout},
		encoding: enc,
	}
}

// URL returns the scorer address.
func (r *RemotePredictor) URL() string {
	return r.url
}

// Predict sends vec to the scorer and parses the returned value.
func (r *RemotePredictor) Predict(ctx context.Context, vec features.Vector) (float64, error) {
	var err error

	var row []byte
	{
		row, err = vec.Encode(r.encoding)
		if err != nil {
			return 0, tracer.Mask(err)
		}
	}

	var buf bytes.Buffer
	{
		buf.WriteString(`{"columns_version":`)
		buf.WriteString(strconv.Quote(features.ColumnsVersion))
		buf.WriteString(`,"instances":[`)
		buf.Write(row)
		buf.WriteString(`]}`)
	}

	var req *http.Request
	{
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, r.url, &buf)
		if err != nil {
			return 0, tracer.Mask(err)
		}
		req.Header.Set("Content-Type", "application/json")
	}

	var res *http.Response
	{
		res, err = r.cli.Do(req)
		if err != nil {
			return 0, tracer.Mask(err)
		}
		defer res.Body.Close()
	}

	var bod []byte
	{
		bod, err = io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
		if err != nil {
			return 0, tracer.Mask(err)
		}
	}

	if res.StatusCode != http.StatusOK {
		return 0, tracer.Mask(fmt.Errorf("scorer returned %d: %s", res.StatusCode, strings.TrimSpace(string(bod))))
	}

	var flo float64
	{
		flo, err = strconv.ParseFloat(strings.TrimSpace(string(bod)), 64)
		if err != nil {
			return 0, tracer.Mask(err)
		}
	}

	return flo, nil
}
