package catalog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/your-org/cnm-responder/internal/catalog"
)

const granuleName = "20230115103045-JPL-L2P_GHRSST-SSTskin-MODIS_A-N-v02.0-fv01.0"

const foundResponse = `{
	"hits": 1,
	"items": [{
		"umm": {
			"DataGranule": {
				"ArchiveAndDistributionInformation": [
					{"Name": "` + granuleName + `.nc", "Checksum": {"Value": "abc123"}},
					{"Name": "` + granuleName + `.nc.md5", "Checksum": {"Value": "def456"}},
					{"Name": "` + granuleName + `.cmr.json", "Checksum": {"Value": "ignored"}}
				]
			}
		}
	}]
}`

func TestFindGranule(t *testing.T) {
	var gotReq *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r.Clone(r.Context())
		w.Write([]byte(foundResponse)) //nolint:errcheck
	}))
	defer server.Close()

	client := catalog.NewClient(catalog.Config{
		URL:   server.URL,
		Token: "edl-token",
	}, zap.NewNop())

	checksums, err := client.FindGranule(context.Background(), "podaac-ops-cumulus", "MODIS_A-JPL-L2P-v2019.0", granuleName)
	require.NoError(t, err)

	assert.Equal(t, catalog.Checksums{
		catalog.KindNetCDF: "abc123",
		catalog.KindMD5:    "def456",
	}, checksums)

	require.NotNil(t, gotReq)
	assert.Equal(t, http.MethodPost, gotReq.Method)
	assert.Equal(t, "MODIS_A-JPL-L2P-v2019.0", gotReq.URL.Query().Get("short_name"))
	assert.Equal(t, granuleName, gotReq.URL.Query().Get("readable_granule_name"))
	assert.Equal(t, "Bearer edl-token", gotReq.Header.Get("Authorization"))
}

func TestFindGranuleZeroHits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"hits": 0, "items": []}`)) //nolint:errcheck
	}))
	defer server.Close()

	client := catalog.NewClient(catalog.Config{URL: server.URL}, zap.NewNop())

	checksums, err := client.FindGranule(context.Background(), "podaac-ops-cumulus", "MODIS_A-JPL-L2P-v2019.0", granuleName)
	require.NoError(t, err)
	assert.Empty(t, checksums)
}

func TestFindGranuleErrorsPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors": ["collection not found"]}`)) //nolint:errcheck
	}))
	defer server.Close()

	client := catalog.NewClient(catalog.Config{URL: server.URL}, zap.NewNop())

	checksums, err := client.FindGranule(context.Background(), "podaac-ops-cumulus", "BAD", granuleName)
	require.NoError(t, err)
	assert.Empty(t, checksums)
}

func TestFindGranuleSelectsUATEndpoint(t *testing.T) {
	prod := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("production endpoint should not be queried")
	}))
	defer prod.Close()

	var uatHit bool
	uat := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uatHit = true
		w.Write([]byte(`{"hits": 0}`)) //nolint:errcheck
	}))
	defer uat.Close()

	client := catalog.NewClient(catalog.Config{URL: prod.URL, UATURL: uat.URL}, zap.NewNop())

	for _, trace := range []string{"podaac-svc-sit", "podaac-svc-uat"} {
		uatHit = false
		_, err := client.FindGranule(context.Background(), trace, "MODIS_A-JPL-L2P-v2019.0", granuleName)
		require.NoError(t, err)
		assert.True(t, uatHit, "trace %q should route to the UAT endpoint", trace)
	}
}

func TestFindGranuleTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := catalog.NewClient(catalog.Config{URL: server.URL}, zap.NewNop())

	_, err := client.FindGranule(context.Background(), "podaac-ops-cumulus", "MODIS_A-JPL-L2P-v2019.0", granuleName)
	assert.Error(t, err)
}

func TestKindOf(t *testing.T) {
	kind, ok := catalog.KindOf("granule.nc")
	assert.True(t, ok)
	assert.Equal(t, catalog.KindNetCDF, kind)

	kind, ok = catalog.KindOf("granule.nc.md5")
	assert.True(t, ok)
	assert.Equal(t, catalog.KindMD5, kind)

	_, ok = catalog.KindOf("granule.cmr.json")
	assert.False(t, ok)
}
