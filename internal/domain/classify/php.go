package classify

import (
	"context"
	"fmt"
	"log"

	"github.com/abdidvp/repoprobe/internal/domain"
	"github.com/tidwall/gjson"
)

// ComposerPackages is checked in order against the require section of
// composer.json.
var ComposerPackages = []Pattern{
	{Marker: "laravel/framework", Framework: "Laravel"},
	{Marker: "symfony/symfony", Framework: "Symfony"},
	{Marker: "symfony/framework-bundle", Framework: "Symfony"},
	{Marker: "codeigniter4/framework", Framework: "CodeIgniter 4"},
	{Marker: "codeigniter/framework", Framework: "CodeIgniter"},
	{Marker: "slim/slim", Framework: "Slim"},
	{Marker: "cakephp/cakephp", Framework: "CakePHP"},
	{Marker: "yiisoft/yii2", Framework: "Yii"},
}

var composerRules = []Rule{
	contentRule("composer.json", "composer.json", false, checkComposer),
}

func checkComposer(_ context.Context, _ *Input, f domain.CandidateFile, content string) *Match {
	if !gjson.Valid(content) {
		log.Printf("skipping %s: %v", f.Path, domain.ErrMalformedManifest)
		return nil
	}
	require := make(map[string]bool)
	gjson.Get(content, "require").ForEach(func(key, _ gjson.Result) bool {
		require[key.String()] = true
		return true
	})

	for _, p := range ComposerPackages {
		if !require[p.Marker] {
			continue
		}
		return &Match{
			WebApp:         true,
			WebAppType:     "PHP",
			Backend:        p.Framework,
			PackageManager: "Composer",
			Evidence:       fmt.Sprintf("Found %s in %s", p.Framework, f.Path),
			Score:          30,
		}
	}
	return nil
}

func checkIndexPHP(_ context.Context, _ *Input, f domain.CandidateFile, _ string) *Match {
	return &Match{
		WebApp:     true,
		WebAppType: "PHP",
		Backend:    "PHP",
		Evidence:   fmt.Sprintf("Found %s file", f.Path),
		Score:      20,
	}
}
