package deploy

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/confgen-ops/confgen/pkg/render"
	"github.com/confgen-ops/confgen/pkg/util"
)

// APIDeployer pushes JSON artifacts to a UniFi-style controller REST
// API. Login is cookie-based; each artifact name maps to a REST
// collection under /api/s/<site>/rest/.
type APIDeployer struct {
	baseURL string
	site    string
	opts    Options
	client  *http.Client
}

// NewAPIDeployer creates a controller API deployer. controllerURL is
// the base URL, e.g. "https://unifi.example.com:8443"; site is the
// controller site slug ("default" for single-site controllers).
func NewAPIDeployer(controllerURL, site string, opts Options) (*APIDeployer, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	transport := &http.Transport{}
	if opts.Insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	if site == "" {
		site = "default"
	}

	return &APIDeployer{
		baseURL: strings.TrimRight(controllerURL, "/"),
		site:    site,
		opts:    opts,
		client: &http.Client{
			Jar:       jar,
			Transport: transport,
			Timeout:   opts.timeout(),
		},
	}, nil
}

// Login authenticates against the controller and stores the session
// cookie.
func (d *APIDeployer) Login(ctx context.Context) error {
	creds, err := json.Marshal(map[string]string{
		"username": d.opts.Username,
		"password": d.opts.Password,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/api/login", bytes.NewReader(creds))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("controller login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("controller login: status %d", resp.StatusCode)
	}
	return nil
}

// Deploy logs in and posts every artifact to its REST collection.
func (d *APIDeployer) Deploy(ctx context.Context, bundle *render.Bundle) error {
	if err := d.Login(ctx); err != nil {
		return util.NewDeployError(bundle.Site, bundle.Vendor, "auth", err)
	}

	for _, a := range bundle.Artifacts {
		if err := d.postArtifact(ctx, a); err != nil {
			return util.NewDeployError(bundle.Site, bundle.Vendor, "push",
				fmt.Errorf("artifact %s: %w", a.Name, err))
		}
		util.WithSite(bundle.Site).Infof("posted %s to %s", a.Name, d.baseURL)
	}
	return nil
}

// postArtifact sends each object of a JSON-array artifact to the
// collection named by the artifact.
func (d *APIDeployer) postArtifact(ctx context.Context, a *render.Artifact) error {
	var objects []json.RawMessage
	if err := json.Unmarshal(a.Content, &objects); err != nil {
		return fmt.Errorf("artifact is not a JSON array: %w", err)
	}

	url := fmt.Sprintf("%s/api/s/%s/rest/%s", d.baseURL, d.site, a.Name)
	for i, obj := range objects {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(obj))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := d.client.Do(req)
		if err != nil {
			return fmt.Errorf("object %d: %w", i, err)
		}
		err = checkAPIResponse(resp)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("object %d: %w", i, err)
		}
	}
	return nil
}

// checkAPIResponse validates the controller's meta.rc envelope.
func checkAPIResponse(resp *http.Response) error {
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	var envelope struct {
		Meta struct {
			RC      string `json:"rc"`
			Message string `json:"msg"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("unexpected response: %w", err)
	}
	if envelope.Meta.RC != "ok" {
		return fmt.Errorf("controller error: %s", envelope.Meta.Message)
	}
	return nil
}
