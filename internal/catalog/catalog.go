package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// FileKind classifies a granule file by its suffix.
type FileKind string

const (
	KindNetCDF FileKind = "netcdf"
	KindMD5    FileKind = "md5"
)

// KindOf classifies a file name by suffix. The bool is false for suffixes
// the catalog does not track.
func KindOf(name string) (FileKind, bool) {
	switch {
	case strings.HasSuffix(name, ".nc"):
		return KindNetCDF, true
	case strings.HasSuffix(name, ".md5"):
		return KindMD5, true
	default:
		return "", false
	}
}

// Checksums maps file kind to the checksum the catalog recorded for it.
type Checksums map[FileKind]string

// Config configures the catalog search client. The UAT endpoint serves
// deployments whose trace prefix ends in -sit or -uat.
type Config struct {
	URL     string
	UATURL  string
	Token   string
	Timeout time.Duration
}

// Client queries the metadata catalog's granule search API.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// NewClient constructs a catalog Client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// searchResponse is the subset of the catalog's UMM JSON response the
// responder reads.
type searchResponse struct {
	Hits   int          `json:"hits"`
	Errors []string     `json:"errors"`
	Items  []searchItem `json:"items"`
}

type searchItem struct {
	UMM struct {
		DataGranule struct {
			ArchiveAndDistributionInformation []archiveFile `json:"ArchiveAndDistributionInformation"`
		} `json:"DataGranule"`
	} `json:"umm"`
}

type archiveFile struct {
	Name     string `json:"Name"`
	Checksum struct {
		Value string `json:"Value"`
	} `json:"Checksum"`
}

// FindGranule searches the catalog for a granule by collection short name
// and readable granule name. It returns the per-file checksums of the first
// matching record, or an empty map when the catalog has no record.
func (c *Client) FindGranule(ctx context.Context, trace, shortName, granule string) (Checksums, error) {
	endpoint := c.cfg.URL
	if strings.HasSuffix(trace, "-sit") || strings.HasSuffix(trace, "-uat") {
		endpoint = c.cfg.UATURL
	}

	params := url.Values{}
	params.Set("short_name", shortName)
	params.Set("readable_granule_name", granule)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer res.Body.Close()

	var body searchResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}

	if len(body.Errors) > 0 {
		c.logger.Error("catalog returned errors", zap.Strings("errors", body.Errors))
		return Checksums{}, nil
	}
	if body.Hits == 0 || len(body.Items) == 0 {
		c.logger.Error("could not locate granule", zap.String("granule", granule))
		return Checksums{}, nil
	}

	// Only the first matching record is read.
	checksums := Checksums{}
	for _, file := range body.Items[0].UMM.DataGranule.ArchiveAndDistributionInformation {
		if kind, ok := KindOf(file.Name); ok {
			checksums[kind] = file.Checksum.Value
		}
	}
	return checksums, nil
}
