package extract

import (
	"net/url"
	"strings"
)

var socialDomains = map[string]bool{
	"linkedin.com":  true,
	"reddit.com":    true,
	"twitter.com":   true,
	"x.com":         true,
	"facebook.com":  true,
	"instagram.com": true,
}

// Host - хост ссылки без www. и в нижнем регистре
func Host(link string) string {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// IsSocialDomain учитывает поддомены: in.linkedin.com тоже соцсеть
func IsSocialDomain(host string) bool {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	for d := range socialDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// InferEmail - contact@<домен> для не-соцсетей
func InferEmail(link string) string {
	host := Host(link)
	if host == "" || IsSocialDomain(host) || !strings.Contains(host, ".") {
		return ""
	}
	return "contact@" + host
}

// CompanyFromURL - первая метка домена с заглавной буквы
func CompanyFromURL(link string) string {
	host := Host(link)
	if host == "" {
		return ""
	}
	label := strings.SplitN(host, ".", 2)[0]
	if label == "" {
		return ""
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
