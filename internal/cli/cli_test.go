package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockVanguard(t *testing.T, status int) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			w.Write([]byte(`{}`))
			return
		}
		switch r.URL.Path {
		case "/vmf/api/VT/characteristic":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"equityCharacteristic": map[string]interface{}{
					"fund": map[string]string{"foreignHolding": "50"},
				},
			})
		case "/vmf/api/BNDW/allocation":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"underlyingFund": map[string]interface{}{
					"fundAllocated": []map[string]string{
						{"percent": "50", "ticker": "BND       "},
						{"percent": "50", "ticker": "BNDX      "},
					},
				},
			})
		default:
			t.Errorf("unexpected request %s", r.URL.Path)
		}
	}))
	t.Cleanup(server.Close)

	isolateConfig(t)
	t.Setenv("VANGUARD_BASE_URL", server.URL)
}

// isolateConfig keeps a config file in the user's home out of the tests.
func isolateConfig(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("BOGLEHEAD_BONDS", "")
	t.Setenv("BOGLEHEAD_DEBUG", "")
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestHelp(t *testing.T) {
	isolateConfig(t)
	code, out, _ := run(t, "--help")
	assert.Equal(t, 0, code)
	for _, name := range []string{"vt", "bndw", "two-fund", "three-fund", "four-fund"} {
		assert.Contains(t, out, name)
	}
}

func TestCommands(t *testing.T) {
	cases := []struct {
		args []string
		want []string
	}{
		{[]string{"vt"}, []string{
			"Percentage of domestic holdings (VTI): 50%",
			"Percentage of foreign holdings (VXUS): 50%",
		}},
		{[]string{"bndw"}, []string{
			"Percentage of domestic holdings (BND): 50%",
			"Percentage of foreign holdings (BNDX): 50%",
		}},
		{[]string{"two-fund"}, []string{
			"Equities (VT): 90%",
			"Bonds (BNDW): 10%",
		}},
		{[]string{"three-fund", "--bonds", "25"}, []string{
			"Domestic Equities (VTI): 37.5%",
			"Foreign Equities (VXUS): 37.5%",
			"Bonds (BNDW): 25%",
		}},
		{[]string{"four-fund", "-b", "50"}, []string{
			"Domestic Equities (VTI): 25%",
			"Foreign Equities (VXUS): 25%",
			"Domestic Bonds (BND): 25%",
			"Foreign Bonds (BNDX): 25%",
		}},
		{[]string{"four-fund", "-b", "25", "--balance", "10000"}, []string{
			"Domestic Equities (VTI): 37.5% ($3750.00)",
			"Foreign Equities (VXUS): 37.5% ($3750.00)",
			"Domestic Bonds (BND): 12.5% ($1250.00)",
			"Foreign Bonds (BNDX): 12.5% ($1250.00)",
		}},
		{[]string{"two-fund", "-b", "12.5", "-a", "0"}, []string{
			"Equities (VT): 87.5% ($0.00)",
			"Bonds (BNDW): 12.5% ($0.00)",
		}},
	}
	for _, tc := range cases {
		t.Run(strings.Join(tc.args, " "), func(t *testing.T) {
			mockVanguard(t, http.StatusOK)

			code, out, errOut := run(t, tc.args...)
			require.Equal(t, 0, code, errOut)
			assert.Equal(t, strings.Join(tc.want, "\n")+"\n", out)
		})
	}
}

func TestProviderFailureExitsNonZero(t *testing.T) {
	for _, name := range []string{"vt", "bndw", "three-fund", "four-fund"} {
		t.Run(name, func(t *testing.T) {
			mockVanguard(t, http.StatusInternalServerError)

			code, out, errOut := run(t, name)
			assert.Equal(t, 1, code)
			assert.Empty(t, out)
			assert.Contains(t, errOut, "Error:")
			assert.Contains(t, errOut, "500")
		})
	}
}

func TestTwoFundNeedsNoProvider(t *testing.T) {
	mockVanguard(t, http.StatusInternalServerError)

	code, _, _ := run(t, "two-fund")
	assert.Equal(t, 0, code)
}

func TestInvalidInputExitsNonZero(t *testing.T) {
	cases := [][]string{
		{"two-fund", "--bonds", "101"},
		{"three-fund", "--bonds", "-1"},
		{"four-fund", "--bonds", "abc"},
		{"two-fund", "--balance", "-5"},
		{"two-fund", "extra-arg"},
	}
	for _, args := range cases {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			mockVanguard(t, http.StatusOK)

			code, out, errOut := run(t, args...)
			assert.Equal(t, 1, code)
			assert.Empty(t, out)
			assert.NotEmpty(t, errOut)
		})
	}
}

func TestDefaultBondsFromEnvironment(t *testing.T) {
	mockVanguard(t, http.StatusOK)
	t.Setenv("BOGLEHEAD_BONDS", "40")

	code, out, _ := run(t, "two-fund")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Bonds (BNDW): 40%")
}

func TestDebugLogsRequests(t *testing.T) {
	mockVanguard(t, http.StatusOK)

	code, out, errOut := run(t, "--debug", "three-fund")
	require.Equal(t, 0, code)
	assert.Contains(t, errOut, "/vmf/api/VT/characteristic")
	assert.NotContains(t, out, "characteristic")
}

func TestInteractivePrompts(t *testing.T) {
	mockVanguard(t, http.StatusOK)

	var asked []string
	orig := askDecimal
	t.Cleanup(func() { askDecimal = orig })
	askDecimal = func(message, help string, def decimal.Decimal, check func(decimal.Decimal) error) (decimal.Decimal, error) {
		asked = append(asked, message)
		if strings.Contains(message, "bonds") {
			return decimal.RequireFromString("20"), nil
		}
		return decimal.RequireFromString("1000"), nil
	}

	code, out, errOut := run(t, "-i", "two-fund")
	require.Equal(t, 0, code, errOut)
	assert.Len(t, asked, 2)
	assert.Equal(t, "Equities (VT): 80% ($800.00)\nBonds (BNDW): 20% ($200.00)\n", out)
}

func TestInteractiveSkipsGivenFlags(t *testing.T) {
	mockVanguard(t, http.StatusOK)

	orig := askDecimal
	t.Cleanup(func() { askDecimal = orig })
	askDecimal = func(message, help string, def decimal.Decimal, check func(decimal.Decimal) error) (decimal.Decimal, error) {
		t.Fatalf("unexpected prompt %q", message)
		return decimal.Zero, nil
	}

	code, _, errOut := run(t, "-i", "two-fund", "-b", "5", "-a", "100")
	require.Equal(t, 0, code, errOut)
}

func TestInteractivePromptError(t *testing.T) {
	mockVanguard(t, http.StatusOK)

	orig := askDecimal
	t.Cleanup(func() { askDecimal = orig })
	askDecimal = func(string, string, decimal.Decimal, func(decimal.Decimal) error) (decimal.Decimal, error) {
		return decimal.Zero, errors.New("interrupt")
	}

	code, _, errOut := run(t, "-i", "two-fund")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "interrupt")
}

func TestConfigInitAndShow(t *testing.T) {
	isolateConfig(t)
	path := filepath.Join(t.TempDir(), "boglehead.json")

	code, out, errOut := run(t, "--config", path, "config", "init")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, path)
	_, err := os.Stat(path)
	require.NoError(t, err)

	code, _, errOut = run(t, "--config", path, "config", "init")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "already exists")

	code, out, errOut = run(t, "--config", path, "config", "show")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "https://investor.vanguard.com")
	assert.Contains(t, out, "BNDW")
	assert.Contains(t, out, path)
}

func TestMissingConfigFileFails(t *testing.T) {
	isolateConfig(t)
	code, _, errOut := run(t, "--config", filepath.Join(t.TempDir(), "nope.json"), "two-fund")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "nope.json")
}

func TestVersion(t *testing.T) {
	code, out, _ := run(t, "version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "boglehead "+version+"\n", out)
}

func TestHelpAndCompletionIgnoreBrokenConfig(t *testing.T) {
	isolateConfig(t)
	t.Setenv("VANGUARD_BASE_URL", "not a url")

	for _, args := range [][]string{
		{"help"},
		{"help", "four-fund"},
		{"completion", "bash"},
		{"__complete", "four"},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			code, out, errOut := run(t, args...)
			assert.Equal(t, 0, code, errOut)
			assert.NotEmpty(t, out)
		})
	}

	code, _, errOut := run(t, "two-fund")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "base_url")
}

func TestConfigInitIgnoresEnvironment(t *testing.T) {
	isolateConfig(t)
	t.Setenv("VANGUARD_BASE_URL", "http://127.0.0.1:9999")
	t.Setenv("BOGLEHEAD_BONDS", "35")
	path := filepath.Join(t.TempDir(), "boglehead.json")

	code, _, errOut := run(t, "--config", path, "config", "init")
	require.Equal(t, 0, code, errOut)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var written map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &written))
	assert.Equal(t, "https://investor.vanguard.com", written["base_url"])
	assert.Equal(t, "10", written["default_bonds"])
}

func TestCommandOrderIsPreserved(t *testing.T) {
	isolateConfig(t)
	_, out, _ := run(t, "--help")

	vt := strings.Index(out, "  vt ")
	two := strings.Index(out, "  two-fund")
	four := strings.Index(out, "  four-fund")
	require.True(t, vt >= 0 && two >= 0 && four >= 0, out)
	assert.Less(t, vt, two)
	assert.Less(t, two, four)
}
