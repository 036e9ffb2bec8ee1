// Package health scores project health as a single composite risk
// number with its supporting evidence.
//
// The composite blends three normalized components under configurable
// convex weights: the Bayesian posterior failure probability of recent
// outcomes, the severity of trends detected over rolling windows
// (failure rate and error-type diversity, via Mann-Kendall), and the
// reported technical-debt fraction. The result is scaled to 0-100,
// higher meaning riskier.
//
// Reports carry only plain data: the composite, the confidence
// intervals, the trend slopes, and a trend label. Rendering and
// persistence belong to callers.
package health
