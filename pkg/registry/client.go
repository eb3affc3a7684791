// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package registry

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"

	"github.com/distribution/reference"
	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	"golang.org/x/time/rate"
	"oras.land/oras-go/v2/content"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"

	apperrors "github.com/NVIDIA/autotag/pkg/errors"
)

// Docker-schema media types still served by older registries.
const (
	mediaTypeDockerManifestList = "application/vnd.docker.distribution.manifest.list.v2+json"
	mediaTypeDockerManifest     = "application/vnd.docker.distribution.manifest.v2+json"
)

// defaultRequestsPerSecond bounds registry traffic; one decision run fetches
// at most two image configurations, the limiter just keeps retried CI jobs
// from hammering the registry.
const defaultRequestsPerSecond = 5

// Client reads image configurations from an OCI registry. It implements the
// change.MetadataSource contract.
type Client struct {
	limiter     *rate.Limiter
	plainHTTP   bool
	insecureTLS bool
}

// Option customizes a Client.
type Option func(*Client)

// WithPlainHTTP uses HTTP instead of HTTPS for the registry connection.
func WithPlainHTTP(plain bool) Option {
	return func(c *Client) { c.plainHTTP = plain }
}

// WithInsecureTLS skips TLS certificate verification.
func WithInsecureTLS(insecure bool) Option {
	return func(c *Client) { c.insecureTLS = insecure }
}

// WithRateLimit overrides the default requests-per-second bound.
func WithRateLimit(rps float64) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), 1) }
}

// NewClient creates a registry client with Docker credential support.
func NewClient(opts ...Option) *Client {
	c := &Client{
		limiter: rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ImageEnv resolves ref (tag or digest form) and returns the environment
// variable assignments found in the image's configuration, keyed by variable
// name. Assignments that do not match the NAME=value shape are dropped.
func (c *Client) ImageEnv(ctx context.Context, ref string) (map[string]string, error) {
	named, err := reference.ParseNormalizedNamed(ref)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid image reference %q", ref), err)
	}

	repo, err := remote.NewRepository(fmt.Sprintf("%s/%s", reference.Domain(named), reference.Path(named)))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "initializing remote repository", err)
	}
	repo.PlainHTTP = c.plainHTTP
	repo.Client = createAuthClient(c.plainHTTP, c.insecureTLS)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	img, err := fetchImageConfig(ctx, repo, fetchReference(named))
	if err != nil {
		return nil, err
	}
	return ParseEnv(img.Config.Env), nil
}

// fetchReference picks the reference string to resolve: digest when the
// reference is pinned, else tag, else "latest".
func fetchReference(named reference.Named) string {
	if canonical, ok := named.(reference.Canonical); ok {
		return canonical.Digest().String()
	}
	if tagged, ok := named.(reference.Tagged); ok {
		return tagged.Tag()
	}
	return "latest"
}

// fetchImageConfig walks from a manifest (or index) descriptor down to the
// image configuration blob.
func fetchImageConfig(ctx context.Context, repo *remote.Repository, ref string) (*ociv1.Image, error) {
	desc, rc, err := repo.FetchReference(ctx, ref)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal,
			fmt.Sprintf("fetching manifest for %q", ref), err)
	}
	data, err := content.ReadAll(rc, desc)
	_ = rc.Close()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "reading manifest", err)
	}

	// multi-arch images publish an index; descend into the matching platform
	if desc.MediaType == ociv1.MediaTypeImageIndex || desc.MediaType == mediaTypeDockerManifestList {
		var index ociv1.Index
		if err := json.Unmarshal(data, &index); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "decoding image index", err)
		}
		manifestDesc, err := selectPlatformManifest(index)
		if err != nil {
			return nil, err
		}
		rc, err := repo.Manifests().Fetch(ctx, manifestDesc)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "fetching platform manifest", err)
		}
		data, err = content.ReadAll(rc, manifestDesc)
		_ = rc.Close()
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "reading platform manifest", err)
		}
	}

	var manifest ociv1.Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "decoding image manifest", err)
	}

	rc, err = repo.Blobs().Fetch(ctx, manifest.Config)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "fetching image configuration", err)
	}
	configData, err := content.ReadAll(rc, manifest.Config)
	_ = rc.Close()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "reading image configuration", err)
	}

	var img ociv1.Image
	if err := json.Unmarshal(configData, &img); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "decoding image configuration", err)
	}
	return &img, nil
}

// selectPlatformManifest picks the index entry matching the local platform,
// falling back to the first entry when none matches.
func selectPlatformManifest(index ociv1.Index) (ociv1.Descriptor, error) {
	if len(index.Manifests) == 0 {
		return ociv1.Descriptor{}, apperrors.New(apperrors.ErrCodeInternal, "image index has no manifests")
	}
	for _, m := range index.Manifests {
		if m.Platform == nil {
			continue
		}
		if m.Platform.OS == runtime.GOOS && m.Platform.Architecture == runtime.GOARCH {
			return m, nil
		}
	}
	return index.Manifests[0], nil
}

// createAuthClient creates an HTTP client with optional TLS configuration
// and Docker credential support.
func createAuthClient(plainHTTP, insecureTLS bool) *auth.Client {
	credStore, _ := credentials.NewStoreFromDocker(credentials.StoreOptions{})

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !plainHTTP && insecureTLS {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		} else {
			transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec
		}
	}

	return &auth.Client{
		Client:     &http.Client{Transport: transport},
		Cache:      auth.NewCache(),
		Credential: credentials.Credential(credStore),
	}
}
