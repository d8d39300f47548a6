package schemas

// Code identifies a specific check outcome. Codes are a closed enum scoped to
// their category; the code string, together with the finding URL, forms the
// stable identity used when diffing two reports.
type Code string

// Redirect codes.
const (
	CodeRedirectLoop        Code = "RedirectLoop"        // Circular redirect detected on the homepage.
	CodeRedirectChain       Code = "RedirectChain"       // Homepage reached through more than one hop.
	CodeRedirectNone        Code = "RedirectNone"        // Homepage answers directly, no redirect.
	CodeHTTPSRedirect       Code = "HTTPSRedirect"       // http:// correctly lands on https://.
	CodeHTTPSRedirectFailed Code = "HTTPSRedirectFailed" // http:// does not end up on https://.
	CodeTrailingSlashChange Code = "TrailingSlashChange" // Slash toggling answers with a 3xx.
	CodeMetaRefresh         Code = "MetaRefresh"         // Homepage carries a meta-refresh redirect.
	CodePageRedirectChain   Code = "PageRedirectChain"   // A sampled page reached through multiple hops.
)

// Robots codes.
const (
	CodeRobotsMissing   Code = "RobotsMissing"   // robots.txt absent or unreadable.
	CodeRobotsBlocksAll Code = "RobotsBlocksAll" // Disallow: / for a crawler that matters.
	CodeRobotsNoSitemap Code = "RobotsNoSitemap" // No Sitemap: directive present.
	CodeRobotsValid     Code = "RobotsValid"     // robots.txt present and unobjectionable.
)

// Sitemap codes.
const (
	CodeSitemapMissing        Code = "SitemapMissing"
	CodeSitemapRedirected     Code = "SitemapRedirected"
	CodeSitemapInvalidXML     Code = "SitemapInvalidXML"
	CodeSitemapIndex          Code = "SitemapIndex"
	CodeSitemapEmpty          Code = "SitemapEmpty"
	CodeSitemapUrlError       Code = "SitemapUrlError"
	CodeSitemapUrlsOK         Code = "SitemapUrlsOK"
	CodeSitemapRobotsMismatch Code = "SitemapRobotsMismatch"
)

// Metadata codes.
const (
	CodeMetaNoindex             Code = "MetaNoindex"
	CodeHeaderNoindex           Code = "HeaderNoindex"
	CodeCanonicalMissing        Code = "CanonicalMissing"
	CodeCanonicalMismatch       Code = "CanonicalMismatch"
	CodeCanonicalCrossOrigin    Code = "CanonicalCrossOrigin"
	CodeCharsetMissing          Code = "CharsetMissing"
	CodeViewportMissing         Code = "ViewportMissing"
	CodeTitleMissing            Code = "TitleMissing"
	CodeDescriptionMissing      Code = "DescriptionMissing"
	CodeOGTitleMissing          Code = "OGTitleMissing"
	CodeOGDescriptionMissing    Code = "OGDescriptionMissing"
	CodeOGImageMissing          Code = "OGImageMissing"
	CodeOGImageRelative         Code = "OGImageRelative"
	CodeOGImageUnreachable      Code = "OGImageUnreachable"
	CodeTwitterCardMissing      Code = "TwitterCardMissing"
	CodeTwitterImageMissing     Code = "TwitterImageMissing"
	CodeTwitterImageUnreachable Code = "TwitterImageUnreachable"
)

// Favicon codes.
const (
	CodeFaviconMissing      Code = "FaviconMissing"      // Neither /favicon.ico nor a declared icon.
	CodeFaviconNotDeclared  Code = "FaviconNotDeclared"  // Bare file exists but no <link rel="icon">.
	CodeFaviconMixedFormats Code = "FaviconMixedFormats" // Both .ico and non-.ico links declared.
	CodeFaviconValid        Code = "FaviconValid"
)

// Structured data codes.
const (
	CodeStructuredDataMissing       Code = "StructuredDataMissing"
	CodeStructuredDataInvalidJSON   Code = "StructuredDataInvalidJSON"
	CodeStructuredDataNoContext     Code = "StructuredDataNoContext"
	CodeStructuredDataNoType        Code = "StructuredDataNoType"
	CodeStructuredDataMissingFields Code = "StructuredDataMissingFields"
	CodeStructuredDataDetected      Code = "StructuredDataDetected"
)

// Next.js platform codes.
const (
	CodeNextPlatformDetected  Code = "NextPlatformDetected"
	CodeNextTrailingSlash308  Code = "NextTrailingSlash308"
	CodeNextMiddlewareHeaders Code = "NextMiddlewareHeaders"
	CodeNextMarkersMissing    Code = "NextMarkersMissing"
)

// Hreflang codes.
const (
	CodeHreflangNone              Code = "HreflangNone"
	CodeHreflangInvalidCode       Code = "HreflangInvalidCode"
	CodeHreflangMissingSelfRef    Code = "HreflangMissingSelfRef"
	CodeHreflangMissingXDefault   Code = "HreflangMissingXDefault"
	CodeHreflangDuplicate         Code = "HreflangDuplicate"
	CodeHreflangMissingReciprocal Code = "HreflangMissingReciprocal"
)

// Image codes.
const (
	CodeImgMissingAlt        Code = "ImgMissingAlt"
	CodeImgEmptyAlt          Code = "ImgEmptyAlt"
	CodeImgNotOptimized      Code = "ImgNotOptimized"
	CodeImgNoLazyLoading     Code = "ImgNoLazyLoading"
	CodeImgTooLarge          Code = "ImgTooLarge"
	CodeImgMissingDimensions Code = "ImgMissingDimensions"
)

// Security header codes.
const (
	CodeSecurityNoHSTS               Code = "SecurityNoHSTS"
	CodeSecurityNoContentTypeOptions Code = "SecurityNoContentTypeOptions"
	CodeSecurityNoFrameProtection    Code = "SecurityNoFrameProtection"
	CodeSecurityNoReferrerPolicy     Code = "SecurityNoReferrerPolicy"
)

// Performance codes.
const (
	CodePerfLargeDocument     Code = "PerfLargeDocument"
	CodePerfVeryLargeDocument Code = "PerfVeryLargeDocument"
	CodePerfBlockingScript    Code = "PerfBlockingScript"
	CodePerfLargeInlineStyle  Code = "PerfLargeInlineStyle"
	CodePerfMissingPreconnect Code = "PerfMissingPreconnect"
)

// Crawl codes.
const (
	CodeCrawlPageError              Code = "CrawlPageError"
	CodeCrawlPageNoindex            Code = "CrawlPageNoindex"
	CodeCrawlPageHeaderNoindex      Code = "CrawlPageHeaderNoindex"
	CodeCrawlPageTitleMissing       Code = "CrawlPageTitleMissing"
	CodeCrawlPageDescriptionMissing Code = "CrawlPageDescriptionMissing"
	CodeCrawlPageCanonicalMissing   Code = "CrawlPageCanonicalMissing"
	CodeCrawlPageCanonicalMismatch  Code = "CrawlPageCanonicalMismatch"
	CodeCrawlPageNoStructuredData   Code = "CrawlPageNoStructuredData"
)
