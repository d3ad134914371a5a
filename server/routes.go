package server

func (s *Server) initRoutes() {
	g := s.guard
	html := s.HTMLMiddleWare()

	// PUBLIC
	s.RegisterRouteFunc("GET "+RouteHome, ChainMiddleware(g.Public(s.HomeHandler()), html...))
	s.RegisterRouteFunc("GET "+RouteAbout, ChainMiddleware(g.Public(s.AboutHandler()), html...))
	s.RegisterRouteFunc("GET "+RoutePost, ChainMiddleware(g.Public(s.PostHandler()), html...))
	s.RegisterRouteFunc("GET "+RouteUser, ChainMiddleware(g.Public(s.UserPostsHandler()), html...))
	s.RegisterRouteFunc("GET "+RouteCategory, ChainMiddleware(g.Public(s.CategoryPostsHandler()), html...))
	s.RegisterRouteFunc("GET "+RouteSearch, ChainMiddleware(g.Public(s.SearchHandler()), html...))

	// COMMENTS
	s.RegisterRouteFunc("POST "+RouteComment, ChainMiddleware(g.RequireAuthenticated(s.CommentHandler()), html...))
	s.RegisterRouteFunc("POST "+RouteCommentReply, ChainMiddleware(g.RequireAuthenticated(s.ReplyHandler()), html...))

	// ACCOUNT
	s.RegisterRouteFunc("GET "+RouteRegister, ChainMiddleware(g.Public(s.RegisterPageHandler()), html...))
	s.RegisterRouteFunc("POST "+RouteRegister, ChainMiddleware(g.Public(s.RegisterHandler()), s.HTMLMiddleWare(s.RateLimitMiddleware)...))
	s.RegisterRouteFunc("GET "+RouteLogin, ChainMiddleware(g.Public(s.LoginPageHandler()), html...))
	s.RegisterRouteFunc("POST "+RouteLogin, ChainMiddleware(g.Public(s.LoginHandler()), s.HTMLMiddleWare(s.RateLimitMiddleware)...))
	s.RegisterRouteFunc("GET "+RouteLogout, ChainMiddleware(g.Public(s.LogoutHandler()), html...))

	// API
	s.RegisterRouteFunc("GET "+RouteAPIPosts, ChainMiddleware(s.APIPostsHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteAPIUserPosts, ChainMiddleware(s.APIUserPostsHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteAPICategoryPosts, ChainMiddleware(s.APICategoryPostsHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteAPISearch, ChainMiddleware(s.APISearchHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("OPTIONS "+RouteAPIPreflight, ChainMiddleware(s.PreflightHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteAPIValidatePassword, ChainMiddleware(s.ValidatePasswordHandler(), html...))

	// DASHBOARD
	s.RegisterRouteFunc("GET "+RouteAdminDashboard, ChainMiddleware(g.RequireAdmin(s.DashboardHandler()), html...))

	s.RegisterRouteFunc("GET "+RouteAdminViewPosts, ChainMiddleware(g.RequireFullUser(s.ViewPostsHandler()), html...))
	s.RegisterRouteFunc("GET "+RouteAdminCreatePost, ChainMiddleware(g.RequireFullUser(s.CreatePostPageHandler()), html...))
	s.RegisterRouteFunc("POST "+RouteAdminCreatePost, ChainMiddleware(g.RequireFullUser(s.CreatePostHandler()), html...))
	s.RegisterRouteFunc("GET "+RouteAdminEditPost, ChainMiddleware(g.RequireFullUser(s.EditPostPageHandler()), html...))
	s.RegisterRouteFunc("POST "+RouteAdminEditPost, ChainMiddleware(g.RequireFullUser(s.EditPostHandler()), html...))
	s.RegisterRouteFunc("POST "+RouteAdminDeletePost, ChainMiddleware(g.RequireFullUser(s.DeletePostHandler()), html...))
	s.RegisterRouteFunc("DELETE "+RouteAdminDeletePost, ChainMiddleware(g.RequireFullUser(s.DeletePostHandler()), html...))

	s.RegisterRouteFunc("GET "+RouteAdminViewCategories, ChainMiddleware(g.RequireFullUser(s.ViewCategoriesHandler()), html...))
	s.RegisterRouteFunc("GET "+RouteAdminCreateCategory, ChainMiddleware(g.RequireAdmin(s.CreateCategoryPageHandler()), html...))
	s.RegisterRouteFunc("POST "+RouteAdminCreateCategory, ChainMiddleware(g.RequireAdmin(s.CreateCategoryHandler()), html...))
	s.RegisterRouteFunc("GET "+RouteAdminEditCategory, ChainMiddleware(g.RequireAdmin(s.EditCategoryPageHandler()), html...))
	s.RegisterRouteFunc("POST "+RouteAdminEditCategory, ChainMiddleware(g.RequireAdmin(s.EditCategoryHandler()), html...))
	s.RegisterRouteFunc("POST "+RouteAdminDeleteCategory, ChainMiddleware(g.RequireAdmin(s.DeleteCategoryHandler()), html...))

	s.RegisterRouteFunc("GET "+RouteAdminViewComments, ChainMiddleware(g.RequireFullUser(s.ViewCommentsHandler()), html...))
	s.RegisterRouteFunc("GET "+RouteAdminReplyComment, ChainMiddleware(g.RequireFullUser(s.ReplyCommentPageHandler()), html...))
	s.RegisterRouteFunc("POST "+RouteAdminReplyComment, ChainMiddleware(g.RequireFullUser(s.ReplyCommentHandler()), html...))
	s.RegisterRouteFunc("POST "+RouteAdminDeleteComment, ChainMiddleware(g.RequireFullUser(s.DeleteCommentHandler()), html...))
	s.RegisterRouteFunc("POST "+RouteAdminDeleteReply, ChainMiddleware(g.RequireFullUser(s.DeleteReplyHandler()), html...))

	s.RegisterRouteFunc("GET "+RouteAdminProfile, ChainMiddleware(g.RequireFullUser(s.ProfileHandler()), html...))
	s.RegisterRouteFunc("GET "+RouteAdminEditProfile, ChainMiddleware(g.RequireFullUser(s.EditProfilePageHandler()), html...))
	s.RegisterRouteFunc("POST "+RouteAdminEditProfile, ChainMiddleware(g.RequireFullUser(s.EditProfileHandler()), html...))
	s.RegisterRouteFunc("POST "+RouteAdminDeleteProfile, ChainMiddleware(g.RequireFullUser(s.DeleteProfileHandler()), html...))
	s.RegisterRouteFunc("POST "+RouteAdminLogout, ChainMiddleware(g.RequireAuthenticated(s.ProfileLogoutHandler()), html...))

	// STATIC
	s.RegisterRouteFunc("GET "+RouteStaticCSS, ChainMiddleware(s.serveFileHandler(), s.StaticMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteStaticJS, ChainMiddleware(s.serveFileHandler(), s.StaticMiddleware()...))
}
