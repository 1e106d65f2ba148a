// Copyright 2025 l3montree UG (haftungsbeschraenkt).
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ACLResolutionFailedAmount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "devguard_findings_acl_resolution_failed_amount",
	Help: "The total number of access scopes that were denied because resolving them failed",
})

var ACLDeniedAllAmount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "devguard_findings_acl_denied_all_amount",
	Help: "The total number of access scopes that resolved to no project",
})

var FindingQueryAmount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "devguard_findings_query_amount",
	Help: "The total number of finding queries by mode",
}, []string{"mode"})

var FindingQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "devguard_findings_query_duration_seconds",
	Help:    "Duration of finding queries in seconds",
	Buckets: prometheus.DefBuckets,
}, []string{"mode"})

var IndexEventPublishFailedAmount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "devguard_findings_index_event_publish_failed_amount",
	Help: "The total number of index events that could not be published",
})
