package wizard

import (
	"context"

	"github.com/ArowuTest/billstack-storefront/internal/catalog"
	"github.com/ArowuTest/billstack-storefront/internal/models"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"
)

// Catalog names an option list a session loads from the gateway
type Catalog string

const (
	CatalogNetworks     Catalog = "networks"
	CatalogDataTypes    Catalog = "dataTypes"
	CatalogBillers      Catalog = "billers"
	CatalogPaymentPlans Catalog = "paymentPlans"
	// CatalogPlans holds data plans and eSIM packages
	CatalogPlans     Catalog = "packages"
	CatalogProviders Catalog = "providers"
)

var catalogs = []Catalog{CatalogNetworks, CatalogDataTypes, CatalogBillers, CatalogPaymentPlans, CatalogPlans, CatalogProviders}

// lookup is the state of one catalog. gen only grows, so a response tagged with an
// older generation is recognisably stale even across resets.
type lookup struct {
	options []models.CatalogOption
	loading bool
	err     string
	gen     uint64
}

func (l *lookup) reset() {
	l.gen++
	l.options = nil
	l.loading = false
	l.err = ""
}

// LookupView is the exported state of one catalog
type LookupView struct {
	Options []models.CatalogOption `json:"options"`
	Loading bool                   `json:"loading"`
	Error   string                 `json:"error,omitempty"`
}

type loader func(ctx context.Context) ([]models.CatalogOption, error)

// fetchLocked starts a request for c. apply runs under the lock only if no newer request
// or reset happened meanwhile; a nil apply replaces the options.
func (s *Session) fetchLocked(c Catalog, load loader, apply func(l *lookup, opts []models.CatalogOption)) {
	l := s.lookups[c]
	l.gen++
	gen := l.gen
	l.loading = true
	l.err = ""

	s.background(func(ctx context.Context) {
		opts, err := load(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()
		if l.gen != gen {
			slog.Debug("Discarding stale catalog response", "sessionId", s.id, "catalog", c)
			return
		}
		l.loading = false
		if err != nil {
			slog.Error("Catalog lookup failed", "sessionId", s.id, "type", s.typ, "catalog", c, "error", err)
			l.err = gatewayMessage(err)
			return
		}
		if apply != nil {
			apply(l, opts)
			return
		}
		l.options = opts
	})
}

func (s *Session) findOption(c Catalog, id string) (models.CatalogOption, bool) {
	if id == "" {
		return models.CatalogOption{}, false
	}
	return catalog.Find(s.lookups[c].options, id)
}

// loadInitialLocked fetches what a freshly opened session shows
func (s *Session) loadInitialLocked() {
	switch s.typ {
	case models.PurchaseAirtime:
		s.lookups[CatalogNetworks].options = catalog.FallbackNetworks()
		s.fetchLocked(CatalogNetworks, func(ctx context.Context) ([]models.CatalogOption, error) {
			ops, err := s.gateway.AirtimeNetworks(ctx)
			return catalog.FromOperators(ops), err
		}, s.applyNetworksLocked)
	case models.PurchaseData:
		s.lookups[CatalogNetworks].options = catalog.FallbackNetworks()
		s.loadDataCatalogsLocked()
	case models.PurchaseElectricity:
		s.fetchLocked(CatalogBillers, func(ctx context.Context) ([]models.CatalogOption, error) {
			ops, err := s.gateway.ElectricityBillers(ctx)
			return catalog.FromOperators(ops), err
		}, nil)
	case models.PurchaseCableTV:
		s.fetchLocked(CatalogBillers, func(ctx context.Context) ([]models.CatalogOption, error) {
			ops, err := s.gateway.CableTVBillers(ctx)
			return catalog.FromOperators(ops), err
		}, nil)
	case models.PurchaseESim:
		s.loadProvidersLocked("NG")
	}
}

// loadDataCatalogsLocked loads data networks and data types in parallel. Each list is
// replaced only by a non-empty live result.
func (s *Session) loadDataCatalogsLocked() {
	networks, types := s.lookups[CatalogNetworks], s.lookups[CatalogDataTypes]
	networks.gen++
	types.gen++
	netGen, typeGen := networks.gen, types.gen
	networks.loading, types.loading = true, true
	networks.err, types.err = "", ""

	s.background(func(ctx context.Context) {
		var (
			netOpts, typeOpts []models.CatalogOption
			netErr, typeErr   error
			g                 errgroup.Group
		)
		g.Go(func() error {
			ops, err := s.gateway.DataNetworks(ctx)
			netOpts, netErr = catalog.FromOperators(ops), err
			return err
		})
		g.Go(func() error {
			dts, err := s.gateway.DataTypes(ctx)
			typeOpts, typeErr = catalog.FromDataTypes(dts), err
			return err
		})
		if err := g.Wait(); err != nil {
			slog.Error("Data catalog lookup failed", "sessionId", s.id, "networksError", netErr, "dataTypesError", typeErr)
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if networks.gen == netGen {
			networks.loading = false
			if netErr != nil {
				networks.err = gatewayMessage(netErr)
			}
			s.applyNetworksLocked(networks, netOpts)
		}
		if types.gen == typeGen {
			types.loading = false
			if typeErr != nil {
				types.err = gatewayMessage(typeErr)
			}
			if len(typeOpts) > 0 {
				types.options = typeOpts
			}
		}
	})
}

// applyNetworksLocked upgrades the fallback networks to a non-empty live list and
// re-runs phone detection against it
func (s *Session) applyNetworksLocked(l *lookup, opts []models.CatalogOption) {
	if len(opts) == 0 {
		return
	}
	l.options = opts
	if phone := models.Value(s.details, models.FieldPhone); phone != "" {
		s.phoneChangedLocked(phone)
	}
}

func (s *Session) loadDataPlansLocked() {
	network := models.Value(s.details, models.FieldNetwork)
	dataType := models.Value(s.details, models.FieldDataType)
	if network == "" || dataType == "" {
		return
	}
	s.fetchLocked(CatalogPlans, func(ctx context.Context) ([]models.CatalogOption, error) {
		plans, err := s.gateway.DataPlans(ctx, dataType, network)
		return catalog.FromProducts(plans), err
	}, func(l *lookup, opts []models.CatalogOption) {
		l.options = catalog.FilterPlans(opts, dataType)
	})
}

func (s *Session) loadPaymentPlansLocked(billerID string) {
	s.fetchLocked(CatalogPaymentPlans, func(ctx context.Context) ([]models.CatalogOption, error) {
		if s.typ == models.PurchaseCableTV {
			plans, err := s.gateway.CableTVPaymentPlans(ctx, billerID)
			return catalog.FromPaymentPlans(plans), err
		}
		plans, err := s.gateway.ElectricityPaymentPlans(ctx, billerID)
		return catalog.FromPaymentPlans(plans), err
	}, nil)
}

func (s *Session) loadProvidersLocked(country string) {
	s.fetchLocked(CatalogProviders, func(ctx context.Context) ([]models.CatalogOption, error) {
		ops, err := s.gateway.ESimProviders(ctx, country)
		return catalog.FromOperators(ops), err
	}, nil)
}

func (s *Session) loadPackagesLocked(providerID string) {
	s.fetchLocked(CatalogPlans, func(ctx context.Context) ([]models.CatalogOption, error) {
		pkgs, err := s.gateway.ESimPackages(ctx, providerID)
		return catalog.FromProducts(pkgs), err
	}, nil)
}
