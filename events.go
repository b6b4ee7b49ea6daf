package gatewaynet

const (
	securityEventUntrustedProxy      = "untrusted_proxy"
	securityEventInvalidForwardedFor = "invalid_forwarded_for"
	securityEventInvalidRealIP       = "invalid_real_ip"
	securityEventInvalidRemoteAddr   = "invalid_remote_addr"
	securityEventMultipleHeaders     = "multiple_headers"
)
