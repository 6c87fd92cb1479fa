package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/cert-lv/ordergrid/pdk"
	yaml "gopkg.in/yaml.v3"
)

/*
 * Return content of the requested file by its path
 */
func loadFileIntoString(path string) (string, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return string(file), nil
}

/*
 * Load the initial list of filters.
 * Every filter is validated, so broken ones are found on start
 */
func loadFilters(path string) ([]pdk.Filter, error) {
	if path == "" {
		return []pdk.Filter{}, nil
	}

	buffer, err := loadFileIntoString(path)
	if err != nil {
		return nil, fmt.Errorf("Failed to read filters file '%s': %s", path, err.Error())
	}

	var list []pdk.Filter

	err = yaml.Unmarshal([]byte(buffer), &list)
	if err != nil {
		return nil, fmt.Errorf("Failed unmarshalling filters yaml: %s", err.Error())
	}

	err = validateFilters(list)
	if err != nil {
		return nil, err
	}

	return list, nil
}

func validateFilters(list []pdk.Filter) error {
	for i, filter := range list {
		_, err := pdk.FilterClause(filter)
		if err != nil {
			return fmt.Errorf("Invalid filter #%d: %s", i+1, err.Error())
		}
	}

	return nil
}

/*
 * Load service's version
 */
func loadVersion() error {
	path := "VERSION"
	var err error

	// Try to get from the environment variable first
	if os.Getenv(path) != "" {
		version = os.Getenv(path)
		return nil
	}

	version, err = loadFileIntoString(path)
	if err != nil {
		return err
	}

	version = strings.TrimSpace(version)
	return nil
}
