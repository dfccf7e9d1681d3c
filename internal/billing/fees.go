// internal/billing/fees.go
package billing

import (
	"math"

	"github.com/Erdalk05/akademihub-sub001/models"
)

// FeeResult, brüt ücret + indirim çözümlemesinin sonucudur.
type FeeResult struct {
	TotalFee       int64 `json:"totalFee"`
	DiscountAmount int64 `json:"discountAmount"`
	NetFee         int64 `json:"netFee"`
}

// ResolveNetFee brüt ücret ve indirimden net ödenecek tutarı hesaplar.
// Negatif girişler reddedilmez, sıfıra kırpılır. Yüzde [0,100] aralığına
// sıkıştırılır ve indirim tutarı en yakın tam TL'ye yuvarlanır. Elle
// girilmiş sabit tutar, yüzdeden türetilen tutarı her zaman ezer.
func ResolveNetFee(totalFee int64, discount *models.Discount) FeeResult {
	if totalFee < 0 {
		totalFee = 0
	}

	var discountAmount int64
	if discount != nil {
		if discount.Percent != nil {
			pct := *discount.Percent
			if pct < 0 {
				pct = 0
			}
			if pct > 100 {
				pct = 100
			}
			discountAmount = int64(math.Round(float64(totalFee) * pct / 100))
		}
		if discount.FixedAmount != nil {
			// Elle girilen tutar yetkilidir.
			discountAmount = *discount.FixedAmount
			if discountAmount < 0 {
				discountAmount = 0
			}
		}
	}

	netFee := totalFee - discountAmount
	if netFee < 0 {
		netFee = 0
	}

	return FeeResult{
		TotalFee:       totalFee,
		DiscountAmount: discountAmount,
		NetFee:         netFee,
	}
}
