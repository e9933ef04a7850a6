package domain

import "time"

// siteZone is the zone all site dates and export timestamps are rendered in.
var siteZone = loadSiteZone()

func loadSiteZone() *time.Location {
	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		// No zoneinfo on the host; China has had no DST since 1991.
		return time.FixedZone("CST", 8*60*60)
	}
	return loc
}

// SiteZone returns the Asia/Shanghai location.
func SiteZone() *time.Location { return siteZone }

// SiteDate formats t as the YYYY-MM-DD calendar date in the site zone.
func SiteDate(t time.Time) string {
	return t.In(siteZone).Format(DateLayout)
}
