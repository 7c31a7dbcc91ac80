package report

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"typedrift/internal/signature"
	"typedrift/internal/verification"
)

var issueKinds = []signature.IssueKind{
	signature.MissingMember,
	signature.ChangedMember,
	signature.UnexpectedMember,
}

// driftMetrics are the gauges exported for one report.
type driftMetrics struct {
	typesTotal        *prometheus.GaugeVec
	typesCompatible   *prometheus.GaugeVec
	typesIncompatible *prometheus.GaugeVec
	typeCompatible    *prometheus.GaugeVec
	typeIssues        *prometheus.GaugeVec
}

func newDriftMetrics(reg prometheus.Registerer) *driftMetrics {
	factory := promauto.With(reg)
	return &driftMetrics{
		typesTotal: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "typedrift_types_total",
			Help: "Number of registry types verified",
		}, []string{"suite"}),
		typesCompatible: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "typedrift_types_compatible",
			Help: "Number of types matching their frozen snapshot",
		}, []string{"suite"}),
		typesIncompatible: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "typedrift_types_incompatible",
			Help: "Number of types with interface drift",
		}, []string{"suite"}),
		typeCompatible: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "typedrift_type_compatible",
			Help: "1 when the type matches its frozen snapshot, 0 otherwise",
		}, []string{"suite", "type"}),
		typeIssues: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "typedrift_type_issues",
			Help: "Drift issues per type and kind",
		}, []string{"suite", "type", "kind"}),
	}
}

func (m *driftMetrics) record(r *verification.VerificationResult) {
	m.typesTotal.WithLabelValues(r.Suite).Set(float64(r.TotalTypes))
	m.typesCompatible.WithLabelValues(r.Suite).Set(float64(r.CompatibleTypes))
	m.typesIncompatible.WithLabelValues(r.Suite).Set(float64(r.IncompatibleTypes))

	for _, v := range r.Verifications {
		compatible := 0.0
		if v.IsCompatible {
			compatible = 1
		}
		m.typeCompatible.WithLabelValues(r.Suite, v.TypeName).Set(compatible)

		counts := make(map[signature.IssueKind]int, len(issueKinds))
		for _, issue := range v.Issues {
			counts[issue.Kind]++
		}
		for _, kind := range issueKinds {
			m.typeIssues.WithLabelValues(r.Suite, v.TypeName, string(kind)).Set(float64(counts[kind]))
		}
	}
}

// WritePrometheus writes the results in the Prometheus text exposition
// format, suitable for the node exporter textfile collector.
func WritePrometheus(w io.Writer, results []*verification.VerificationResult) error {
	reg := prometheus.NewRegistry()
	m := newDriftMetrics(reg)
	for _, r := range results {
		m.record(r)
	}

	families, err := reg.Gather()
	if err != nil {
		return err
	}
	return writeFamilies(w, families)
}

func writeFamilies(w io.Writer, families []*dto.MetricFamily) error {
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
