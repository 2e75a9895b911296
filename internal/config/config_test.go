package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perrijuan/sistema-bancario/internal/service/ledger"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "bank_data/bank.db", cfg.SQLitePath)
	assert.Equal(t, 8080, cfg.Port)

	want := ledger.DefaultPolicy()
	got := cfg.Policy()
	assert.True(t, want.NormalTransferFee.Equal(got.NormalTransferFee))
	assert.True(t, want.VIPTransferFeeRate.Equal(got.VIPTransferFeeRate))
	assert.True(t, want.NormalTransferLimit.Equal(got.NormalTransferLimit))
	assert.True(t, want.ManagerVisitFee.Equal(got.ManagerVisitFee))
	assert.True(t, want.NegativeInterestRate.Equal(got.NegativeInterestRate))
}

func TestLoad_Drivers(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{name: "memory", env: map[string]string{"STORE_DRIVER": "memory"}},
		{name: "postgres with url", env: map[string]string{"STORE_DRIVER": "postgres", "DATABASE_URL": "postgres://x"}},
		{name: "postgres without url", env: map[string]string{"STORE_DRIVER": "postgres"}, wantErr: true},
		{name: "unknown driver", env: map[string]string{"STORE_DRIVER": "mongo"}, wantErr: true},
		{name: "bad decimal", env: map[string]string{"MANAGER_VISIT_FEE": "fifty"}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv("DATABASE_URL", "")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
