package languages

var defaultRegistry = NewRegistry()

// Default returns the registry holding the built-in languages and the
// plugin catalog.
func Default() *Registry {
	return defaultRegistry
}

func init() {
	// Built-in languages, in inference order.
	for _, l := range []Language{
		{Name: "JavaScript", Parser: "babel", Extensions: []string{".js", ".cjs", ".mjs", ".jsx"}},
		{Name: "Flow", Parser: "flow", Extensions: []string{".js.flow"}},
		{Name: "TypeScript", Parser: "typescript", Extensions: []string{".ts", ".cts", ".mts", ".tsx"}},
		{Name: "JSON", Parser: "json", Extensions: []string{".json"}, Filenames: []string{".prettierrc", ".babelrc"}},
		{Name: "JSON5", Parser: "json5", Extensions: []string{".json5"}},
		{Name: "JSON with Comments", Parser: "jsonc", Extensions: []string{".jsonc"}, Filenames: []string{"tsconfig.json", "jsconfig.json"}},
		{Name: "CSS", Parser: "css", Extensions: []string{".css"}},
		{Name: "SCSS", Parser: "scss", Extensions: []string{".scss"}},
		{Name: "Less", Parser: "less", Extensions: []string{".less"}},
		{Name: "GraphQL", Parser: "graphql", Extensions: []string{".graphql", ".gql"}},
		{Name: "Markdown", Parser: "markdown", Extensions: []string{".md", ".markdown"}, Filenames: []string{"README"}},
		{Name: "MDX", Parser: "mdx", Extensions: []string{".mdx"}},
		{Name: "YAML", Parser: "yaml", Extensions: []string{".yml", ".yaml"}, Filenames: []string{".clang-format"}},
		{Name: "HTML", Parser: "html", Extensions: []string{".html", ".htm"}},
		{Name: "Angular", Parser: "angular", Extensions: []string{".component.html"}},
		{Name: "Vue", Parser: "vue", Extensions: []string{".vue"}},
		{Name: "Handlebars", Parser: "glimmer", Extensions: []string{".hbs", ".handlebars"}},
		// Selectable through the parser option only.
		{Name: "TypeScript (Babel)", Parser: "babel-ts"},
		{Name: "JavaScript (Acorn)", Parser: "acorn"},
		{Name: "JavaScript (Espree)", Parser: "espree"},
		{Name: "JavaScript (Meriyah)", Parser: "meriyah"},
		{Name: "Lightning Web Components", Parser: "lwc"},
	} {
		mustRegister(defaultRegistry.RegisterLanguage(l))
	}

	// Plugin catalog.
	for _, p := range []Plugin{
		{Name: "prettier-plugin-sh", Languages: []Language{
			{Name: "Shell", Parser: "sh", Extensions: []string{".sh", ".bash", ".zsh"}, Filenames: []string{".bashrc", ".zshrc", "Dockerfile"}},
		}},
		{Name: "prettier-plugin-toml", Languages: []Language{
			{Name: "TOML", Parser: "toml", Extensions: []string{".toml"}, Filenames: []string{"Cargo.lock"}},
		}},
		{Name: "@prettier/plugin-xml", Languages: []Language{
			{Name: "XML", Parser: "xml", Extensions: []string{".xml", ".svg", ".xsd"}},
		}},
		{Name: "@prettier/plugin-php", Languages: []Language{
			{Name: "PHP", Parser: "php", Extensions: []string{".php", ".phtml"}},
		}},
		{Name: "prettier-plugin-astro", Languages: []Language{
			{Name: "Astro", Parser: "astro", Extensions: []string{".astro"}},
		}},
		{Name: "prettier-plugin-go-template", Languages: []Language{
			{Name: "Go Template", Parser: "go-template", Extensions: []string{".gotmpl", ".go.html"}},
		}},
	} {
		mustRegister(defaultRegistry.RegisterPlugin(p))
	}
}

func mustRegister(err error) {
	if err != nil {
		panic(err)
	}
}
