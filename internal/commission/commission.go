package commission

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	pricingdomain "github.com/pedalroom/pedalroom/internal/pricing/domain"
	"github.com/spf13/viper"
)

// Config is the marketplace commission policy: a default percentage per
// side, optionally overridden by the provider's role. A nil percentage means
// that side pays no commission and no line item is emitted for it.
type Config struct {
	ProviderPercentage *float64     `mapstructure:"providerPercentage"`
	CustomerPercentage *float64     `mapstructure:"customerPercentage"`
	Roles              []RolePolicy `mapstructure:"roles"`
}

type RolePolicy struct {
	Role               string   `mapstructure:"role"`
	ProviderPercentage *float64 `mapstructure:"providerPercentage"`
	CustomerPercentage *float64 `mapstructure:"customerPercentage"`
}

func DefaultConfig() Config {
	return Config{
		ProviderPercentage: float64Ptr(10),
	}
}

func float64Ptr(v float64) *float64 { return &v }

// Resolve maps a provider role to the commission pair the pricing engine
// consumes. Unknown roles fall back to the defaults.
func (c Config) Resolve(role string) (provider, customer pricingdomain.Commission) {
	provider = pricingdomain.Commission{Percentage: c.ProviderPercentage}
	customer = pricingdomain.Commission{Percentage: c.CustomerPercentage}

	role = strings.TrimSpace(role)
	if role == "" {
		return provider, customer
	}

	for _, policy := range c.Roles {
		if policy.Role != role {
			continue
		}
		if policy.ProviderPercentage != nil {
			provider.Percentage = policy.ProviderPercentage
		}
		if policy.CustomerPercentage != nil {
			customer.Percentage = policy.CustomerPercentage
		}
		return provider, customer
	}
	return provider, customer
}

type Holder struct {
	current atomic.Value // holds Config
}

func NewHolder() (*Holder, error) {
	v := viper.New()

	v.SetConfigName("commission")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/pedalroom/config") // Volume-mounted config
	v.AddConfigPath("/etc/pedalroom")            // System config
	v.AddConfigPath(".")                         // Current directory (dev mode)

	v.SetEnvPrefix("PEDALROOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// if config file not found, use defaults
		defaults := DefaultConfig()
		v.SetDefault("commission.providerPercentage", defaults.ProviderPercentage)
		v.SetDefault("commission.customerPercentage", defaults.CustomerPercentage)
		v.SetDefault("commission.roles", defaults.Roles)
	}

	var cfg Config
	if err := v.UnmarshalKey("commission", &cfg); err != nil {
		return nil, err
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	holder := &Holder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated Config
		if err := v.UnmarshalKey("commission", &updated); err != nil {
			log.Printf("[commission-config] reload failed: %v", err)
			return
		}
		if err := validateConfig(updated); err != nil {
			log.Printf("[commission-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[commission-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *Holder) Get() Config {
	return h.current.Load().(Config)
}

func validateConfig(cfg Config) error {
	if err := validatePercentage(cfg.ProviderPercentage); err != nil {
		return err
	}
	if err := validatePercentage(cfg.CustomerPercentage); err != nil {
		return err
	}
	for _, policy := range cfg.Roles {
		if strings.TrimSpace(policy.Role) == "" {
			return errors.New("commission.roles entries need a role")
		}
		if err := validatePercentage(policy.ProviderPercentage); err != nil {
			return err
		}
		if err := validatePercentage(policy.CustomerPercentage); err != nil {
			return err
		}
	}
	return nil
}

func validatePercentage(p *float64) error {
	if p == nil {
		return nil
	}
	if *p < 0 || *p > 100 {
		return errors.New("commission percentage must be between 0 and 100")
	}
	return nil
}
