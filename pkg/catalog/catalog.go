// Package catalog talks to the upstream pack and loader indexes and turns
// their JSON into descriptors the rest of packsmith consumes. Three sources
// are covered: the FTB-style modpack API, the CurseForge mods/files API, and
// the prism meta index for loader versions.
package catalog

import (
	"context"
	"encoding/json"
	"io"

	"github.com/packsmith/packsmith/pkg/errors"
)

// httpClient is the slice of transport.HTTPFetcher the catalog clients use.
type httpClient interface {
	Get(ctx context.Context, ref string) (io.ReadCloser, error)
	PostJSON(ctx context.Context, ref string, payload interface{}) (io.ReadCloser, error)
}

// getJSON fetches ref and decodes the body into v. Transport errors pass
// through unchanged so their transient/permanent/unauthorized classification
// survives to the caller.
func getJSON(ctx context.Context, client httpClient, ref string, v interface{}) error {
	body, err := client.Get(ctx, ref)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return errors.Wrapf(err, errors.ErrCatalogDecode, "decode response from %s", ref)
	}
	return nil
}

// postJSON posts payload to ref and decodes the body into v.
func postJSON(ctx context.Context, client httpClient, ref string, payload, v interface{}) error {
	body, err := client.PostJSON(ctx, ref, payload)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return errors.Wrapf(err, errors.ErrCatalogDecode, "decode response from %s", ref)
	}
	return nil
}
