package maven

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"net/url"
	"strings"

	"github.com/knutwalker/latest-maven-version/pkg/coordinate"
	errs "github.com/knutwalker/latest-maven-version/pkg/errors"
	"github.com/knutwalker/latest-maven-version/pkg/httputil"
	"github.com/knutwalker/latest-maven-version/pkg/integrations"
)

// DefaultResolver is Maven Central.
const DefaultResolver = "https://repo.maven.apache.org/maven2"

const metadataFile = "maven-metadata.xml"

// Client reads version lists from a Maven style repository.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	resolver *url.URL
}

// NewClient creates a client for the repository rooted at resolver.
// An empty resolver means [DefaultResolver]. The resolver must be an
// absolute http(s) URL; otherwise an INVALID_RESOLVER error is returned.
func NewClient(resolver string, opts ...integrations.Option) (*Client, error) {
	if resolver == "" {
		resolver = DefaultResolver
	}
	if err := errs.ValidateURL(resolver); err != nil {
		return nil, err
	}
	u, err := url.Parse(resolver)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidResolver, err, "the resolver %s is an invalid URL", resolver)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return &Client{
		Client:   integrations.NewClient(opts...),
		resolver: u,
	}, nil
}

// Resolver returns the repository root URL.
func (c *Client) Resolver() string {
	return c.resolver.String()
}

// MetadataURL returns the location of the metadata document for coord:
// the resolver, the groupId split on '.', the artifactId and
// "maven-metadata.xml".
func (c *Client) MetadataURL(coord coordinate.Coordinate) string {
	segments := append(coord.Segments(), metadataFile)
	return c.resolver.JoinPath(segments...).String()
}

// FetchVersions returns the raw version strings published for coord, in
// document order. Failures are returned as coded errors:
// COORDINATE_NOT_FOUND for 404, UNAUTHORIZED, FORBIDDEN, RATE_LIMITED,
// CLIENT_ERROR, UPSTREAM_ERROR, NETWORK_ERROR, TIMEOUT and
// INVALID_METADATA. A cancelled context is returned as is.
func (c *Client) FetchVersions(ctx context.Context, coord coordinate.Coordinate) ([]string, error) {
	metaURL := c.MetadataURL(coord)

	body, err := c.GetBody(ctx, metaURL)
	if err != nil {
		return nil, c.mapError(coord, metaURL, err)
	}

	versions, err := ParseMetadata(bytes.NewReader(body))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidMetadata, err,
			"unable to parse Maven metadata XML file from %s", metaURL).
			WithHint("The resolver might not conform to the Maven metadata format.")
	}
	return versions, nil
}

func (c *Client) mapError(coord coordinate.Coordinate, metaURL string, err error) error {
	resolver := c.Resolver()
	switch {
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, context.DeadlineExceeded), isTimeout(err):
		return errs.Wrap(errs.ErrCodeTimeout, err, "timed out reading Maven metadata from %s", resolver).
			WithHint("Try a larger --timeout.")
	case errors.Is(err, integrations.ErrNotFound):
		return errs.Wrap(errs.ErrCodeCoordinateNotFound, err,
			"the coordinates %s could not be found using the resolver %s; the following URL was tried and resulted in a 404: %s",
			coord, resolver, metaURL).
			WithHint("The coordinates may not exist, or the server does not follow Maven style publication.")
	case errors.Is(err, integrations.ErrUnauthorized):
		return errs.Wrap(errs.ErrCodeUnauthorized, err, "the resolver %s requires authentication", resolver).
			WithHint("Provide credentials with --user.")
	case errors.Is(err, integrations.ErrForbidden):
		return errs.Wrap(errs.ErrCodeForbidden, err, "access to %s was denied by the resolver %s", coord, resolver).
			WithHint("Check that the user may read this repository.")
	case errors.Is(err, integrations.ErrRateLimited):
		return errs.Wrap(errs.ErrCodeRateLimited, err, "the resolver %s is rate limiting requests", resolver).
			WithHint("Please try again later.")
	case errors.Is(err, integrations.ErrClient):
		return errs.Wrap(errs.ErrCodeClientRequest, err, "could not read Maven metadata using the resolver %s", resolver).
			WithHint("There is likely something wrong with your request, please check your inputs.")
	case errors.Is(err, integrations.ErrUpstream):
		return errs.Wrap(errs.ErrCodeUpstream, err, "could not read Maven metadata using the resolver %s", resolver).
			WithHint("There is likely something wrong with the resolver. Please try again later.")
	case errors.Is(err, httputil.ErrCircuitOpen):
		return errs.Wrap(errs.ErrCodeUpstream, err, "the resolver %s failed repeatedly and is temporarily skipped", resolver).
			WithHint("Please try again later.")
	default:
		return errs.Wrap(errs.ErrCodeNetwork, err, "could not reach the resolver %s", resolver).
			WithHint("Maybe your internet connection is gone. The resolver could also be down.")
	}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

// ParseMetadata extracts the version strings listed under
// <versions><version> in a maven-metadata.xml document. Text and CDATA
// content is trimmed and empty entries are skipped. Documents without a
// version list, including an empty input, yield no versions; malformed
// XML is an error.
func ParseMetadata(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var (
		versions  []string
		inList    int
		inVersion bool
		text      strings.Builder
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return versions, nil
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "versions":
				inList++
			case t.Name.Local == "version" && inList > 0:
				inVersion = true
				text.Reset()
			}
		case xml.CharData:
			if inVersion {
				text.Write(t)
			}
		case xml.EndElement:
			switch {
			case t.Name.Local == "versions" && inList > 0:
				inList--
			case t.Name.Local == "version" && inVersion:
				inVersion = false
				if v := strings.TrimSpace(text.String()); v != "" {
					versions = append(versions, v)
				}
			}
		}
	}
}
