package runtime

// Initializer is implemented by components that need setup before their first render.
type Initializer interface {
	OnInit()
}

// ParameterReceiver is implemented by components that react to parameters,
// called before every render including the first.
type ParameterReceiver interface {
	OnParametersSet()
}

// Cleaner is implemented by components that release resources when unmounted.
type Cleaner interface {
	OnDestroy()
}

// NavigationManager performs client-side navigation. A router implements it.
type NavigationManager interface {
	Navigate(path string) error
}
