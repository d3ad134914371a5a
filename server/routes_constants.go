package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Public pages
	RouteHome     = "/{$}"
	RouteAbout    = "/about"
	RoutePost     = "/post/{slug}"
	RouteUser     = "/user/{username}"
	RouteCategory = "/category/{name}"
	RouteSearch   = "/search"

	// Comment mutations
	RouteComment      = "/comment/{postID}"
	RouteCommentReply = "/comment/{commentID}/reply"

	// Account Routes
	RouteRegister = "/register"
	RouteLogin    = "/login"
	RouteLogout   = "/logout"

	// API Routes
	RouteAPIPosts            = "/api/posts"
	RouteAPIUserPosts        = "/api/user/{username}/posts"
	RouteAPICategoryPosts    = "/api/category/{name}/posts"
	RouteAPISearch           = "/api/search"
	RouteAPIValidatePassword = "/api/validate-password"
	RouteAPIPreflight        = "/api/{path...}"

	// Dashboard
	RouteAdminDashboard = "/admin"

	RouteAdminViewPosts  = "/admin/posts/view-posts"
	RouteAdminCreatePost = "/admin/posts/create-posts"
	RouteAdminEditPost   = "/admin/posts/edit-posts/{slug}"
	RouteAdminDeletePost = "/admin/posts/delete-posts/{slug}"

	RouteAdminViewCategories = "/admin/category/view-category"
	RouteAdminCreateCategory = "/admin/category/create-category"
	RouteAdminEditCategory   = "/admin/category/edit-category/{id}"
	RouteAdminDeleteCategory = "/admin/category/delete-category/{id}"

	RouteAdminViewComments  = "/admin/comments/view-comments"
	RouteAdminReplyComment  = "/admin/comments/reply-comments/{id}"
	RouteAdminDeleteComment = "/admin/comments/delete-comments/{id}"
	RouteAdminDeleteReply   = "/admin/comments/delete-reply/{id}/{replyID}"

	RouteAdminProfile       = "/admin/profile"
	RouteAdminEditProfile   = "/admin/profile/edit-profile"
	RouteAdminDeleteProfile = "/admin/profile/delete-profile"
	RouteAdminLogout        = "/admin/profile/logout"

	// Static Asset Routes (patterns)
	RouteStaticCSS = "/css/{file}"
	RouteStaticJS  = "/js/{file}"
)

// Redirect targets.
const (
	pathHome           = "/"
	pathAdmin          = "/admin"
	pathViewPosts      = "/admin/posts/view-posts"
	pathViewComments   = "/admin/comments/view-comments"
	pathViewCategory   = "/admin/category/view-category"
	pathAdminProfile   = "/admin/profile"
	pathEditProfile    = "/admin/profile/edit-profile"
	pathCreateCategory = "/admin/category/create-category"
)

func postPath(slug string) string {
	return "/post/" + slug
}
