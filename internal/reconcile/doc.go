// Package reconcile checks the normalized hardware and layout models
// against each other and merges them into one DeviceModel.
//
// This is the only place where assumptions spanning both documents live.
// Every check runs; discrepancies are collected into a diagnostic.Report
// and any conflict blocks generation.
package reconcile
