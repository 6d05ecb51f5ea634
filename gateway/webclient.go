package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/German-BioImaging/omero-rdf/encode"
	"github.com/German-BioImaging/omero-rdf/errors"
)

// WebClientConfig holds configuration for the OMERO.web JSON API client.
type WebClientConfig struct {
	// BaseURL is the server root, e.g. "https://idr.openmicroscopy.org".
	BaseURL string `json:"base_url" yaml:"base_url"`
	// Timeout bounds each API request.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
	// HTTPClient overrides the HTTP client, e.g. to carry session cookies.
	HTTPClient *http.Client `json:"-" yaml:"-"`
	// Logger receives request-level debug logging. slog.Default() when nil.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

// Validate checks the configuration for errors.
func (c *WebClientConfig) Validate() error {
	if c.BaseURL == "" {
		return errors.WrapInvalid(errors.ErrMissingConfig, "WebClientConfig", "Validate", "base_url is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "WebClientConfig", "Validate", "base_url must be an absolute URL")
	}
	return nil
}

// WebClient implements Gateway over the OMERO.web JSON API.
//
// Endpoint layout (API v0):
//
//	/api/v0/m/{type}s/{id}/             object by id (marshal form)
//	/api/v0/m/projects/{id}/datasets/   container children
//	/api/v0/m/rois/?image={id}          regions of interest with shapes
//	/webclient/api/annotations/         linked annotations
type WebClient struct {
	base   *url.URL
	client *http.Client
	logger *slog.Logger
}

// NewWebClient creates a Gateway over the OMERO.web JSON API.
func NewWebClient(cfg WebClientConfig) (*WebClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base, _ := url.Parse(cfg.BaseURL)

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &WebClient{base: base, client: client, logger: logger}, nil
}

// Host returns the server host used for subject IRI construction.
func (w *WebClient) Host(_ context.Context) (string, error) {
	if w.base.Hostname() == "" {
		return "", errors.WrapFatal(errors.ErrInvalidConfig, "WebClient", "Host", "host resolution")
	}
	return w.base.Hostname(), nil
}

// collection maps a type name to its API collection segment.
func collection(typeName string) string {
	switch typeName {
	case TypeProject:
		return "projects"
	case TypeDataset:
		return "datasets"
	case TypeScreen:
		return "screens"
	case TypePlate:
		return "plates"
	case TypeWell:
		return "wells"
	case TypeImage:
		return "images"
	case "Roi", "ROI":
		return "rois"
	default:
		return ""
	}
}

// Encode fetches an object and converts it to the tagged object model. For
// images, the inline pixel set is stripped here and served through
// PrimaryPixels so the traversal layer controls its containment edges.
func (w *WebClient) Encode(ctx context.Context, ref ObjectRef) (*encode.Object, error) {
	coll := collection(ref.Type)
	if coll == "" {
		return nil, errors.Wrap(fmt.Errorf("%w: %s", errors.ErrUnknownTarget, ref.Type),
			"WebClient", "Encode", "collection lookup")
	}

	var body struct {
		Data map[string]any `json:"data"`
	}
	path := fmt.Sprintf("/api/v0/m/%s/%d/", coll, ref.ID)
	if err := w.getJSON(ctx, path, nil, &body); err != nil {
		return nil, err
	}
	if ref.Type == TypeImage {
		delete(body.Data, "Pixels")
	}
	return encode.FromMap(body.Data)
}

// Children enumerates a container's immediate children.
func (w *WebClient) Children(ctx context.Context, ref ObjectRef) ([]ObjectRef, error) {
	var childColl, childType string
	switch ref.Type {
	case TypeProject:
		childColl, childType = "datasets", TypeDataset
	case TypeDataset:
		childColl, childType = "images", TypeImage
	case TypeScreen:
		childColl, childType = "plates", TypePlate
	case TypePlate:
		childColl, childType = "wells", TypeWell
	case TypeWell:
		return w.wellImages(ctx, ref)
	default:
		return nil, nil
	}

	var body struct {
		Data []map[string]any `json:"data"`
	}
	path := fmt.Sprintf("/api/v0/m/%s/%d/%s/", collection(ref.Type), ref.ID, childColl)
	if err := w.getJSON(ctx, path, nil, &body); err != nil {
		return nil, err
	}

	refs := make([]ObjectRef, 0, len(body.Data))
	for _, item := range body.Data {
		id, ok := numericID(item)
		if !ok {
			w.logger.Debug("skipping child without @id", "parent", ref.String())
			continue
		}
		refs = append(refs, ObjectRef{Type: childType, ID: id})
	}
	return refs, nil
}

// wellImages extracts the image of each well sample.
func (w *WebClient) wellImages(ctx context.Context, well ObjectRef) ([]ObjectRef, error) {
	var body struct {
		Data map[string]any `json:"data"`
	}
	path := fmt.Sprintf("/api/v0/m/wells/%d/", well.ID)
	if err := w.getJSON(ctx, path, nil, &body); err != nil {
		return nil, err
	}

	samples, _ := body.Data["WellSamples"].([]any)
	var refs []ObjectRef
	for _, s := range samples {
		sample, ok := s.(map[string]any)
		if !ok {
			continue
		}
		img, ok := sample["Image"].(map[string]any)
		if !ok {
			continue
		}
		if id, ok := numericID(img); ok {
			refs = append(refs, ObjectRef{Type: TypeImage, ID: id})
		}
	}
	return refs, nil
}

// Annotations enumerates the annotations linked to an object.
func (w *WebClient) Annotations(ctx context.Context, ref ObjectRef) ([]*encode.Object, error) {
	var body struct {
		Annotations []map[string]any `json:"annotations"`
	}
	query := url.Values{}
	query.Set(annotationQueryParam(ref.Type), fmt.Sprintf("%d", ref.ID))
	if err := w.getJSON(ctx, "/webclient/api/annotations/", query, &body); err != nil {
		return nil, err
	}

	anns := make([]*encode.Object, 0, len(body.Annotations))
	for _, raw := range body.Annotations {
		ann, err := encode.FromMap(raw)
		if err != nil {
			return nil, err
		}
		anns = append(anns, ann)
	}
	return anns, nil
}

// annotationQueryParam maps an object type to the query parameter the
// webclient annotations endpoint expects. Shape references carry their
// concrete class name (Rectangle, Ellipse, ...) but the endpoint only knows
// the umbrella "shape" parameter.
func annotationQueryParam(typeName string) string {
	switch typeName {
	case "Rectangle", "Ellipse", "Line", "Point", "Polygon", "Polyline", "Label", "Mask":
		return "shape"
	}
	return strings.ToLower(typeName)
}

// PrimaryPixels returns the encoded primary pixel set of an image, nil when
// the image has none.
func (w *WebClient) PrimaryPixels(ctx context.Context, image ObjectRef) (*encode.Object, error) {
	var body struct {
		Data map[string]any `json:"data"`
	}
	path := fmt.Sprintf("/api/v0/m/images/%d/", image.ID)
	if err := w.getJSON(ctx, path, nil, &body); err != nil {
		return nil, err
	}
	pixels, ok := body.Data["Pixels"].(map[string]any)
	if !ok {
		return nil, nil
	}
	return encode.FromMap(pixels)
}

// ROIs returns the regions of interest attached to an image, shapes inline.
func (w *WebClient) ROIs(ctx context.Context, image ObjectRef) ([]*encode.Object, error) {
	var body struct {
		Data []map[string]any `json:"data"`
	}
	query := url.Values{}
	query.Set("image", fmt.Sprintf("%d", image.ID))
	if err := w.getJSON(ctx, "/api/v0/m/rois/", query, &body); err != nil {
		return nil, err
	}

	rois := make([]*encode.Object, 0, len(body.Data))
	for _, raw := range body.Data {
		// Shapes are traversed explicitly so they get containment edges.
		delete(raw, "Shapes")
		roi, err := encode.FromMap(raw)
		if err != nil {
			return nil, err
		}
		rois = append(rois, roi)
	}
	return rois, nil
}

// Shapes returns the shapes of a region of interest.
func (w *WebClient) Shapes(ctx context.Context, roi ObjectRef) ([]*encode.Object, error) {
	var body struct {
		Data map[string]any `json:"data"`
	}
	path := fmt.Sprintf("/api/v0/m/rois/%d/", roi.ID)
	if err := w.getJSON(ctx, path, nil, &body); err != nil {
		return nil, err
	}

	raw, _ := body.Data["Shapes"].([]any)
	shapes := make([]*encode.Object, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		shape, err := encode.FromMap(m)
		if err != nil {
			return nil, err
		}
		shapes = append(shapes, shape)
	}
	return shapes, nil
}

func (w *WebClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := *w.base
	u.Path = path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return errors.Wrap(err, "WebClient", "getJSON", "building request")
	}
	req.Header.Set("Accept", "application/json")

	w.logger.Debug("omero web request", "url", u.String())
	resp, err := w.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "WebClient", "getJSON", "request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return errors.WrapNotFound(
			fmt.Errorf("%w: %s", errors.ErrNotFound, path),
			"WebClient", "getJSON", "lookup")
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Wrap(fmt.Errorf("unexpected status %d for %s", resp.StatusCode, path),
			"WebClient", "getJSON", "request")
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "WebClient", "getJSON", "reading body")
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.WrapInvalid(err, "WebClient", "getJSON", "decoding body")
	}
	return nil
}

func numericID(m map[string]any) (int64, bool) {
	v, ok := m["@id"].(float64)
	if !ok {
		return 0, false
	}
	return int64(v), true
}
