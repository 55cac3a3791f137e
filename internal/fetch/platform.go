package fetch

import (
	"net/url"
	"strings"
)

// Platform is a job board the page extraction knows how to read.
type Platform string

const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformAshby      Platform = "ashby"
	PlatformLinkedIn   Platform = "linkedin"
	PlatformUnknown    Platform = "unknown"
)

var platformHosts = []struct {
	suffix   string
	platform Platform
}{
	{"greenhouse.io", PlatformGreenhouse},
	{"lever.co", PlatformLever},
	{"myworkdayjobs.com", PlatformWorkday},
	{"workday.com", PlatformWorkday},
	{"ashbyhq.com", PlatformAshby},
	{"linkedin.com", PlatformLinkedIn},
}

// DetectPlatform identifies the job board from the URL host.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Hostname())
	for _, h := range platformHosts {
		if host == h.suffix || strings.HasSuffix(host, "."+h.suffix) {
			return h.platform
		}
	}
	return PlatformUnknown
}

// NeedsBrowser reports whether the platform renders postings with
// JavaScript, so a plain fetch rarely yields the description.
func (p Platform) NeedsBrowser() bool {
	return p == PlatformWorkday || p == PlatformAshby
}

// PlatformContentSelectors returns content selectors for a platform,
// most specific first.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformGreenhouse:
		return []string{
			".job__description.body",
			".job__description",
			".job-description__content",
			"#content",
			".job-post-container",
		}
	case PlatformLever:
		return []string{
			".posting-page",
			".section-wrapper.page-full-width",
			".posting-description",
			".content",
		}
	case PlatformWorkday:
		return []string{
			"[data-automation-id='jobPostingDescription']",
			"[data-automation-id='jobDescription']",
			".job-description",
		}
	case PlatformAshby:
		return []string{
			"[class*='descriptionText']",
			".ashby-job-posting-description",
		}
	case PlatformLinkedIn:
		return []string{
			".show-more-less-html__markup",
			".description__text",
			".jobs-description__content",
		}
	default:
		return JobPostingSelectors()
	}
}

// PlatformNoiseSelectors returns elements removed before extraction:
// application forms, EEO notices and share widgets.
func PlatformNoiseSelectors(platform Platform) []string {
	common := []string{
		"form",
		"#application-form",
		".application-form",
		".apply-button-container",
		"[data-testid='application-form']",
		".voluntary-disclosure",
		".eeo-statement",
		".eeo-section",
		".legal-disclosure",
		".self-identification",
		".social-share",
		".share-buttons",
		".cookie-consent",
		".gdpr-notice",
	}

	switch platform {
	case PlatformGreenhouse:
		return append(common,
			".application--wrapper",
			".voluntary-self-id",
			"#usa_self_id_section",
		)
	case PlatformLever:
		return append(common, ".apply-section", ".posting-apply")
	case PlatformWorkday:
		return append(common, "[data-automation-id='applyButton']")
	case PlatformLinkedIn:
		return append(common, ".show-more-less-html__button", ".sign-up-modal")
	default:
		return common
	}
}
