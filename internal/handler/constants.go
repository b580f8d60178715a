package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the post list.
	RouteRoot = "/"
	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"

	// RouteRegister is the registration route.
	RouteRegister = "/register"
	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"

	// RoutePost is the post page route prefix.
	RoutePost = "/post"
	// RouteNewPost is the owner-only post creation route.
	RouteNewPost = "/new-post"
	// RouteEditPost is the owner-only post edit route prefix.
	RouteEditPost = "/edit-post"
	// RouteDeletePost is the owner-only post deletion route prefix.
	RouteDeletePost = "/delete"

	// RouteAbout is the about page route.
	RouteAbout = "/about"
	// RouteContact is the contact form route.
	RouteContact = "/contact"

	// RoutePostID is the post page route pattern.
	RoutePostID = RoutePost + RouteParamID
	// RouteEditPostID is the post edit route pattern.
	RouteEditPostID = RouteEditPost + RouteParamID
	// RouteDeletePostID is the post deletion route pattern.
	RouteDeletePostID = RouteDeletePost + RouteParamID
)

const (
	redirectRoot   = RouteRoot
	redirectLogin  = RouteLogin
	redirectPostID = RoutePost + "/%d"
)

// Page template names.
const (
	pageIndex    = "index"
	pagePost     = "post"
	pageMakePost = "make-post"
	pageLogin    = "login"
	pageRegister = "register"
	pageAbout    = "about"
	pageContact  = "contact"
	pageError    = "error"
)

// User-facing flash messages.
const (
	msgInvalidCredentials = "Invalid Email or Password"
	msgLoggedOut          = "You have been logged out."
	msgLoginToComment     = "You need to log in to comment."
	msgInvalidForm        = "Invalid form data"
	msgDuplicateEmail     = "You've already signed up with that email, log in instead!"
	msgDuplicateTitle     = "A post with this title already exists"
)

// HeaderContentType is the Content-Type HTTP header name.
const HeaderContentType = "Content-Type"
