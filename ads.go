package glubpage

import (
	"context"

	"go.uber.org/zap"
)

const AdsPath = "/assets/ads.html"

// InjectAds copies the ads fragment into the ad slot unescaped. The fragment
// is same-origin markup maintained with the site.
func (r *Renderer) InjectAds(ctx context.Context, doc Document) {
	el := doc.ElementByID(AdSlotID)
	if el == nil {
		return
	}
	b, err := r.Fetcher.Fetch(ctx, AdsPath, "text/html")
	if err != nil {
		Logger(ctx).Warn("Failed to load ads fragment", zap.String("path", AdsPath), zap.Error(err))
		el.SetInnerHTML("")
		return
	}
	el.SetInnerHTML(string(b))
}
