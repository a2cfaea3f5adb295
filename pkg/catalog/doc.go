// Package catalog aggregates the judgment dataset: tag frequencies, the grouped
// filter sets shown by the judgment browser, the latest-judgments preview and search.
package catalog
