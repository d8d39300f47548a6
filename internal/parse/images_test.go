// File: internal/parse/images_test.go
package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImagesAltTristate(t *testing.T) {
	doc := mustParse(t, `<body>
		<img src="/a.png" alt="described">
		<img src="/b.png" alt="">
		<img src="/c.png">
		<img alt="no src, skipped">
	</body>`)

	images := doc.Images()
	require.Len(t, images, 3)

	assert.True(t, images[0].HasAlt())
	assert.False(t, images[0].HasEmptyAlt())

	assert.True(t, images[1].HasAlt())
	assert.True(t, images[1].HasEmptyAlt())

	assert.False(t, images[2].HasAlt())
	assert.False(t, images[2].HasEmptyAlt())
}

func TestImagesAttributes(t *testing.T) {
	doc := mustParse(t, `<body>
		<img src="/hero.png" width="800" height="400" loading="EAGER">
		<img src="/_next/image?url=%2Fphoto.jpg" alt="x">
		<img src="/plain.png" data-nimg="1" alt="y" loading="lazy">
	</body>`)

	images := doc.Images()
	require.Len(t, images, 3)

	assert.True(t, images[0].HasWidth)
	assert.True(t, images[0].HasHeight)
	assert.Equal(t, "eager", images[0].Loading)
	assert.False(t, images[0].IsNextImage)

	assert.True(t, images[1].IsNextImage, "optimizer src prefix marks the image")
	assert.True(t, images[2].IsNextImage, "framework data attribute marks the image")
	assert.Equal(t, "lazy", images[2].Loading)
}

func TestHeadScriptsBlocking(t *testing.T) {
	doc := mustParse(t, `<head>
		<script src="/blocking.js"></script>
		<script src="/deferred.js" defer></script>
		<script src="/async.js" async></script>
		<script src="/mod.js" type="module"></script>
		<script>var inline = true;</script>
	</head><body><script src="/body.js"></script></body>`)

	scripts := doc.HeadScripts()
	require.Len(t, scripts, 5, "body scripts are out of scope")

	blocking := 0
	for _, s := range scripts {
		if s.IsBlocking() {
			blocking++
			assert.Equal(t, "/blocking.js", s.Src)
		}
	}
	assert.Equal(t, 1, blocking)
}

func TestResourceRefsAndPreconnects(t *testing.T) {
	doc := mustParse(t, `<head>
		<link rel="preconnect" href="https://fonts.example">
		<link rel="dns-prefetch" href="https://cdn.example">
		<link rel="stylesheet" href="https://cdn.example/app.css">
		<script src="https://js.example/app.js"></script>
	</head><body><img src="/local.png"></body>`)

	refs := doc.ResourceRefs()
	urls := make([]string, 0, len(refs))
	for _, r := range refs {
		urls = append(urls, r.URL)
	}
	assert.Contains(t, urls, "https://cdn.example/app.css")
	assert.Contains(t, urls, "https://js.example/app.js")
	assert.Contains(t, urls, "/local.png")

	hints := doc.PreconnectOrigins()
	assert.ElementsMatch(t, []string{"https://fonts.example", "https://cdn.example"}, hints)
}

func TestInlineStyles(t *testing.T) {
	big := strings.Repeat("a", 100)
	doc := mustParse(t, `<head><style>body{margin:0}</style><style>`+big+`</style></head>`)

	styles := doc.InlineStyles()
	require.Len(t, styles, 2)
	assert.Equal(t, "body{margin:0}", styles[0])
	assert.Len(t, styles[1], 100)
}
