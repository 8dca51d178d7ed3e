package model

// Realm is a coarse deployment grouping of the platform. It decides which
// signing variant and which client header set a request uses.
type Realm string

const (
	RealmOverseas Realm = "os"
	RealmDomestic Realm = "cn"
)

// IsValid returns true if the realm is one of the known realms
func (r Realm) IsValid() bool {
	return r == RealmOverseas || r == RealmDomestic
}

// AppVersion returns the x-rpc-app_version literal the platform expects for the realm
func (r Realm) AppVersion() string {
	if r == RealmDomestic {
		return "2.11.1"
	}
	return "1.5.0"
}

// Region is a fine-grained game server cluster, e.g. "prod_gf_us"
type Region string

// domesticRegions lists the clusters that must be signed with the domestic
// variant. The first three are overseas-billed shards hosted on mainland
// infrastructure; the rest are mainland clusters proper.
var domesticRegions = map[Region]struct{}{
	"prod_gf_sg":        {},
	"prod_official_cht": {},
	"os_cht":            {},
	"cn_gf01":           {},
	"cn_qd01":           {},
	"prod_gf_cn":        {},
	"prod_qd_cn":        {},
}

// Realm classifies the region. Unknown regions fall back to RealmOverseas.
func (r Region) Realm() Realm {
	if _, ok := domesticRegions[r]; ok {
		return RealmDomestic
	}
	return RealmOverseas
}

func (r Region) String() string {
	return string(r)
}
