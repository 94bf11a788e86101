package build

// Keys of the page context that every layout can rely on.
const (
	KeyLayoutName = "layoutName"
	KeyPageName   = "pageName"
	KeyProduction = "production"
	KeyDev        = "dev"
	KeySetAccount = "setAccount"
	KeySetSiteID  = "setSiteId"
	KeyAssets     = "assets"
)

// PageContext holds the per-page values passed to the layout.
type PageContext struct {
	LayoutName string
	PageName   string
	Production bool
	Dev        bool
	SetAccount string
	SetSiteID  string
	Assets     string
}

// Map returns the template context for the page. Site data is merged over
// the page values, so a data key with the same name wins.
func (pc PageContext) Map(site map[string]interface{}) map[string]interface{} {
	ctx := make(map[string]interface{}, len(site)+7)
	ctx[KeyLayoutName] = pc.LayoutName
	ctx[KeyPageName] = pc.PageName
	ctx[KeyProduction] = pc.Production
	ctx[KeyDev] = pc.Dev
	ctx[KeySetAccount] = pc.SetAccount
	ctx[KeySetSiteID] = pc.SetSiteID
	ctx[KeyAssets] = pc.Assets

	for k, v := range site {
		ctx[k] = v
	}
	return ctx
}
