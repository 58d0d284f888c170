package domain

// AdSettings holds raw ad snippets injected into every page.
type AdSettings struct {
	PopunderCode     string `bson:"popunder_code" json:"popunder_code"`
	SocialBarCode    string `bson:"social_bar_code" json:"social_bar_code"`
	BannerAdCode     string `bson:"banner_ad_code" json:"banner_ad_code"`
	NativeBannerCode string `bson:"native_banner_code" json:"native_banner_code"`
}
