package common

const (
	ComponentQueryManager = "query-manager"
	ComponentCacheEngine  = "cache-engine"
	ComponentEstimator    = "estimator"
	ComponentMerger       = "merger"
	ComponentAdvancer     = "advancer"
	ComponentCacheStore   = "cache-store"
	ComponentRangeFetcher = "range-fetcher"
	ComponentHeadTracker  = "head-tracker"
	ComponentRPC          = "rpc"
	ComponentMaintenance  = "maintenance"
	ComponentAPI          = "api"
)

var AllComponents = map[string]struct{}{
	ComponentQueryManager: {},
	ComponentCacheEngine:  {},
	ComponentEstimator:    {},
	ComponentMerger:       {},
	ComponentAdvancer:     {},
	ComponentCacheStore:   {},
	ComponentRangeFetcher: {},
	ComponentHeadTracker:  {},
	ComponentRPC:          {},
	ComponentMaintenance:  {},
	ComponentAPI:          {},
}
