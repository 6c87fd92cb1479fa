package pdk

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
)

/*
 * Validate common access parameters of the HTTP based backends
 */
func ValidateAccess(source *Source) error {
	if source.Access["url"] == "" {
		return fmt.Errorf("'access.url' is not defined")
	} else if !strings.HasPrefix(source.Access["url"], "http") {
		return fmt.Errorf("'access.url' must start with 'http[s]://'")
	}

	return nil
}

/*
 * HTTP transport limited by the backend's timeout.
 * Custom CA is loaded from the "access.ca" file if set
 */
func HTTPTransport(source *Source) (*http.Transport, error) {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	if source.Access["ca"] != "" {
		cert, err := os.ReadFile(source.Access["ca"])
		if err != nil {
			return nil, fmt.Errorf("Unable to read CA from '%s': %s", source.Access["ca"], err.Error())
		}

		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(cert) {
			return nil, fmt.Errorf("No certificates found in '%s'", source.Access["ca"])
		}

		tlsConfig.RootCAs = pool
	}

	return &http.Transport{
		MaxIdleConnsPerHost:   10,
		ResponseHeaderTimeout: source.Timeout,
		DialContext: (&net.Dialer{
			Timeout:   source.Timeout,
			KeepAlive: source.Timeout,
		}).DialContext,
		TLSClientConfig: tlsConfig,
	}, nil
}
