package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	api := s.echo.Group("/api")
	requireJWT := s.middleware.JWT.RequireJWT()
	requireStaff := s.middleware.JWT.RequireStaff()
	limited := s.middleware.RateLimit.Handler()

	users := api.Group("/users")
	users.POST("/register", s.register, limited)
	users.POST("/login", s.login, limited)
	users.GET("/current", s.currentUser, requireJWT)

	categories := api.Group("/categories")
	categories.GET("", s.listCategories)
	categories.GET("/list", s.listCategoriesWithBooks)
	categories.GET("/slug/:slug", s.getCategoryBySlug)
	categories.GET("/:id", s.getCategory)
	categories.POST("", s.createCategory, requireJWT, requireStaff)
	categories.POST("/:id", s.addSubCategory, requireJWT, requireStaff)
	categories.DELETE("/:id", s.deleteCategory, requireJWT, requireStaff)

	books := api.Group("/books")
	books.GET("/:id", s.getBook)
	books.POST("", s.createBook, requireJWT, requireStaff)
	books.PUT("/:id", s.updateBook, requireJWT, requireStaff)
	books.DELETE("/:id", s.deleteBook, requireJWT, requireStaff)

	bookLists := api.Group("/booklists")
	bookLists.GET("", s.listBookLists)
	bookLists.GET("/:id", s.getBookList)
	bookLists.POST("", s.createBookList, requireJWT)
	bookLists.POST("/:id/like", s.likeBookList, requireJWT)
	bookLists.DELETE("/:id", s.deleteBookList, requireJWT)

	api.GET("/feed/booklists", s.bookListFeed)

	api.POST("/cache/invalidate", s.invalidateCache, requireJWT, requireStaff)
}
