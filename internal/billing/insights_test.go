package billing

import (
	"testing"
	"time"
)

func insightRules(insights []Insight) map[string]bool {
	out := make(map[string]bool, len(insights))
	for _, ins := range insights {
		out[ins.Rule+"/"+ins.Target] = true
	}
	return out
}

func TestEvaluateInsightsThresholds(t *testing.T) {
	rules := DefaultInsightRules()

	tests := []struct {
		name   string
		params map[string]interface{}
		want   []string // tetiklenmesi beklenen kural adları
	}{
		{
			name: "excellent collection",
			params: map[string]interface{}{
				"collectionRate": 96.0, "freeStudentRatio": 0.0,
				"criticalRiskCount": 0.0, "riskScore": 0.0, "isTopClass": 0.0,
			},
			want: []string{"excellent_collection"},
		},
		{
			name: "rate exactly 95 still excellent",
			params: map[string]interface{}{
				"collectionRate": 95.0, "freeStudentRatio": 0.0,
				"criticalRiskCount": 0.0, "riskScore": 0.0, "isTopClass": 0.0,
			},
			want: []string{"excellent_collection"},
		},
		{
			name: "weak collection under 80",
			params: map[string]interface{}{
				"collectionRate": 79.9, "freeStudentRatio": 0.0,
				"criticalRiskCount": 0.0, "riskScore": 0.0, "isTopClass": 0.0,
			},
			want: []string{"weak_collection"},
		},
		{
			name: "free ratio and critical risk both warn",
			params: map[string]interface{}{
				"collectionRate": 85.0, "freeStudentRatio": 31.0,
				"criticalRiskCount": 2.0, "riskScore": 0.0, "isTopClass": 0.0,
			},
			want: []string{"many_free_students", "critical_risk_present"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateInsights(rules, "class", "9-A", tt.params)
			if len(got) != len(tt.want) {
				t.Fatalf("triggered %d rules (%v), want %d", len(got), got, len(tt.want))
			}
			names := insightRules(got)
			for _, w := range tt.want {
				if !names[w+"/9-A"] {
					t.Errorf("rule %q did not trigger", w)
				}
			}
		})
	}
}

// Bozuk bir ifade tablodaki diğer kuralları durdurmaz.
func TestEvaluateInsightsSkipsBrokenRule(t *testing.T) {
	rules := []InsightRule{
		{Name: "broken", Scope: "class", Expr: "((", Level: "danger", Msg: "x"},
		{Name: "ok", Scope: "class", Expr: "collectionRate < 80", Level: "danger", Msg: "y"},
	}
	got := EvaluateInsights(rules, "class", "c", map[string]interface{}{"collectionRate": 10.0})
	if len(got) != 1 || got[0].Rule != "ok" {
		t.Fatalf("got %v, want only the valid rule", got)
	}
}

func TestEvaluateReportInsightsMarksTopClass(t *testing.T) {
	year := 2026
	today := time.Date(year, time.March, 1, 0, 0, 0, 0, time.UTC)
	report := Aggregate(testLedgers(year), year, today, DefaultRiskThresholds(), DefaultInsightRules())

	names := insightRules(report.Insights)
	// 9-A en yüksek tahsilat oranına sahip sınıftır.
	if !names["top_class/9-A"] {
		t.Errorf("top_class insight missing for 9-A: %v", report.Insights)
	}
	if names["top_class/9-B"] {
		t.Errorf("9-B must not be top class: %v", report.Insights)
	}
	// Portföy oranı %50: portföy uyarısı tetiklenir.
	if !names["portfolio_weak/portfolio"] {
		t.Errorf("portfolio_weak insight missing: %v", report.Insights)
	}
}
