// internal/billing/insights.go
package billing

import (
	"log/slog"

	"github.com/Knetic/govaluate"
)

// Insight rapor üzerinde tetiklenmiş tek bir kuralın sonucudur.
type Insight struct {
	Rule    string `json:"rule"`
	Level   string `json:"level"` // success | warning | danger
	Target  string `json:"target"`
	Message string `json:"message"`
}

// InsightRule bildirimsel bir eşik kuralıdır. Koşullar kod dallanması
// değil veridir: govaluate ifadesi olarak tutulur, bu sayede eşikler
// bağımsız test edilebilir ve dağıtım olmadan ayarlanabilir.
type InsightRule struct {
	Name  string `mapstructure:"name"`
	Scope string `mapstructure:"scope"` // "class" | "portfolio"
	Expr  string `mapstructure:"expr"`
	Level string `mapstructure:"level"`
	Msg   string `mapstructure:"msg"`
}

// DefaultInsightRules kurumun standart kural tablosudur. Yapılandırma
// dosyası aynı şemayla bu tabloyu tamamen değiştirebilir.
func DefaultInsightRules() []InsightRule {
	return []InsightRule{
		{Name: "excellent_collection", Scope: "class", Expr: "collectionRate >= 95", Level: "success",
			Msg: "Tahsilat oranı mükemmel"},
		{Name: "weak_collection", Scope: "class", Expr: "collectionRate < 80", Level: "danger",
			Msg: "Tahsilat oranı kritik seviyenin altında"},
		{Name: "many_free_students", Scope: "class", Expr: "freeStudentRatio > 30", Level: "warning",
			Msg: "Burslu/ücretsiz öğrenci oranı yüksek"},
		{Name: "critical_risk_present", Scope: "class", Expr: "criticalRiskCount > 0", Level: "warning",
			Msg: "Kritik risk grubunda öğrenci var"},
		{Name: "top_class", Scope: "class", Expr: "isTopClass == 1", Level: "success",
			Msg: "En yüksek tahsilat oranına sahip sınıf"},
		{Name: "portfolio_weak", Scope: "portfolio", Expr: "collectionRate < 80", Level: "danger",
			Msg: "Portföy tahsilat oranı hedefin altında"},
		{Name: "portfolio_critical", Scope: "portfolio", Expr: "criticalCount > 0", Level: "warning",
			Msg: "Portföyde kritik riskli öğrenciler var"},
	}
}

// EvaluateInsights kural tablosunu verilen parametrelerle değerlendirir.
// Bozuk bir ifade kuralı sessizce devre dışı bırakır (loglanır); rapor
// üretimi tek kural yüzünden durmaz.
func EvaluateInsights(rules []InsightRule, scope, target string, params map[string]interface{}) []Insight {
	var out []Insight
	for _, rule := range rules {
		if rule.Scope != scope {
			continue
		}
		expr, err := govaluate.NewEvaluableExpression(rule.Expr)
		if err != nil {
			slog.Warn("Geçersiz kural ifadesi atlandı", "rule", rule.Name, "error", err)
			continue
		}
		result, err := expr.Evaluate(params)
		if err != nil {
			slog.Warn("Kural değerlendirilemedi", "rule", rule.Name, "error", err)
			continue
		}
		if matched, ok := result.(bool); ok && matched {
			out = append(out, Insight{Rule: rule.Name, Level: rule.Level, Target: target, Message: rule.Msg})
		}
	}
	return out
}

// EvaluateReportInsights sınıf ve portföy kurallarını rapora uygular.
func EvaluateReportInsights(rules []InsightRule, report PortfolioReport) []Insight {
	var out []Insight

	// En yüksek tahsilat oranlı sınıfı işaretle.
	topIdx := -1
	var topRate float64
	for i, cr := range report.Classes {
		if cr.CollectionRate > topRate {
			topRate = cr.CollectionRate
			topIdx = i
		}
	}

	for i, cr := range report.Classes {
		freeRatio := 0.0
		if cr.StudentCount > 0 {
			freeRatio = float64(cr.FreeStudentCount) / float64(cr.StudentCount) * 100
		}
		isTop := 0.0
		if i == topIdx {
			isTop = 1
		}
		// govaluate tüm sayıları float64 bekler.
		params := map[string]interface{}{
			"collectionRate":    cr.CollectionRate,
			"freeStudentRatio":  freeRatio,
			"criticalRiskCount": float64(cr.CriticalRiskCount),
			"riskScore":         cr.RiskScore,
			"isTopClass":        isTop,
		}
		out = append(out, EvaluateInsights(rules, "class", cr.ClassName, params)...)
	}

	out = append(out, EvaluateInsights(rules, "portfolio", "portfolio", map[string]interface{}{
		"collectionRate": report.CollectionRate,
		"criticalCount":  float64(report.RiskCounts[RiskCritical]),
		"studentCount":   float64(report.StudentCount),
	})...)

	return out
}
