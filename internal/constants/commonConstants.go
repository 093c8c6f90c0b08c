package constants

type (
	APIStatus   int
	CachePrefix string
)

const (
	APIStatusOk    APIStatus = 1
	APIStatusError APIStatus = 0

	CachePrefixAccessToken CachePrefix = "SG_TOKEN_"
)

const (
	DefaultCustomerID    = "15"
	DefaultVenueTimezone = "America/New_York"
	DateLayout           = "2006-01-02"
	DateTimeLayout       = "2006-01-02 15:04:05"
	LastRunLayout        = "Mon, 02 Jan 2006, 03:04 PM MST"
)
