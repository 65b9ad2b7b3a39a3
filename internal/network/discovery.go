package network

import (
	"fmt"
	"net"
	"strconv"
)

// GetLocalIP returns the primary local IP address
func GetLocalIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String(), nil
}

// ListenTargets returns the "ip:port" strings a controller on the LAN can send
// to when the receiver binds listenIP. A wildcard bind expands to every local
// IPv4 address.
func ListenTargets(listenIP string, port int) []string {
	p := strconv.Itoa(port)
	if listenIP != "" && listenIP != "0.0.0.0" && listenIP != "::" {
		return []string{net.JoinHostPort(listenIP, p)}
	}
	ips, err := GetLocalIPs()
	if err != nil || len(ips) == 0 {
		return []string{fmt.Sprintf("127.0.0.1:%d", port)}
	}
	out := make([]string, 0, len(ips))
	for _, ip := range ips {
		out = append(out, net.JoinHostPort(ip, p))
	}
	return out
}

// GetLocalIPs returns all available local IPv4 addresses
func GetLocalIPs() ([]string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	var ips []string
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 {
			continue // interface down
		}
		if iface.Flags&net.FlagLoopback != 0 {
			continue // loopback interface
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip == nil || ip.IsLoopback() {
				continue
			}
			ip = ip.To4()
			if ip == nil {
				continue // not an ipv4 address
			}
			ips = append(ips, ip.String())
		}
	}
	return ips, nil
}
