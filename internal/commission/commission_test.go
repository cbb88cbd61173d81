package commission

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve_Defaults(t *testing.T) {
	cfg := DefaultConfig()

	provider, customer := cfg.Resolve("")
	assert.True(t, provider.HasPercentage())
	assert.Equal(t, float64(10), *provider.Percentage)
	assert.False(t, customer.HasPercentage())
}

func TestResolve_UnknownRoleFallsBack(t *testing.T) {
	cfg := Config{
		ProviderPercentage: float64Ptr(10),
		Roles: []RolePolicy{
			{Role: "shop", ProviderPercentage: float64Ptr(15)},
		},
	}

	provider, _ := cfg.Resolve("courier")
	assert.Equal(t, float64(10), *provider.Percentage)
}

func TestResolve_RoleOverride(t *testing.T) {
	cfg := Config{
		ProviderPercentage: float64Ptr(10),
		CustomerPercentage: float64Ptr(5),
		Roles: []RolePolicy{
			{Role: "shop", ProviderPercentage: float64Ptr(15)},
			{Role: "partner", ProviderPercentage: float64Ptr(0), CustomerPercentage: float64Ptr(2)},
		},
	}

	provider, customer := cfg.Resolve("shop")
	assert.Equal(t, float64(15), *provider.Percentage)
	// Customer side keeps the default when the override is silent on it.
	assert.Equal(t, float64(5), *customer.Percentage)

	provider, customer = cfg.Resolve("partner")
	assert.Equal(t, float64(0), *provider.Percentage)
	assert.Equal(t, float64(2), *customer.Percentage)
}

func TestValidateConfig(t *testing.T) {
	assert.NoError(t, validateConfig(DefaultConfig()))

	assert.Error(t, validateConfig(Config{ProviderPercentage: float64Ptr(101)}))
	assert.Error(t, validateConfig(Config{CustomerPercentage: float64Ptr(-1)}))
	assert.Error(t, validateConfig(Config{
		Roles: []RolePolicy{{Role: "  "}},
	}))
}
