package token

import "strings"

func wordSet(words string) map[string]struct{} {
	fields := strings.Fields(words)
	set := make(map[string]struct{}, len(fields))
	for _, w := range fields {
		set[w] = struct{}{}
	}
	return set
}

// reserved are never identifiers.
var reserved = wordSet(`
	ACCESS ADD ALL ALTER AND ANY AS ASC AT AUDIT
	BEGIN BETWEEN BY
	CASE CHAR CHECK CLUSTER CLUSTERS COLAUTH COLUMN COLUMNS COMMENT COMPRESS CONNECT
	CRASH CREATE CURSOR
	DATE DECIMAL DECLARE DEFAULT DELETE DESC DISTINCT DROP
	ELSE END EXCEPTION EXCLUSIVE
	FETCH FLOAT FOR FROM FUNCTION
	GOTO GRANT GROUP
	HAVING
	IDENTIFIED IF IMMEDIATE IN INCREMENT INDEX INDEXES INITIAL INSERT INTEGER INTERSECT INTO IS
	LIKE LOCK LONG
	MAXEXTENTS MINUS MODE MODIFY
	NOAUDIT NOCOMPRESS NOT NOWAIT NULL NUMBER
	OF OFFLINE ON ONLINE OPTION OR ORDER OVERLAPS
	PCTFREE PRIOR PROCEDURE PUBLIC
	RAW RENAME RESOURCE REVOKE ROWS
	SELECT SESSION SET SHARE SIZE SMALLINT SQL START SUBTYPE SUCCESSFUL SYNONYM
	TABAUTH TABLE THEN TO TRIGGER TYPE
	UNION UNIQUE UPDATE
	VALIDATE VALUES VARCHAR VARCHAR2 VIEW VIEWS
	WHEN WHENEVER WHERE WITH
`)

// keywords are known words of the grammar that may still name things.
var keywords = wordSet(`
	ACCESSIBLE AGGREGATE ANY_CS ARRAY AUTHID AUTONOMOUS_TRANSACTION
	BFILE BINARY_DOUBLE BINARY_FLOAT BINARY_INTEGER BLOB BODY BOOLEAN BULK BYTE
	CALL CHARACTER CHARSET CLOB CLOSE COLLATION COLLECT COMMIT CONSTANT CONSTRUCTOR
	CONTINUE COUNT CURRENT CURRENT_USER
	DAY DEC DEFINER DETERMINISTIC DOUBLE
	EDITIONABLE EDITIONING ELSIF ESCAPE EXCEPTIONS EXCEPTION_INIT EXECUTE EXISTS EXIT
	EXTERNAL
	FILE FINAL FORALL FORCE FOUND
	INDICES INLINE INSTANTIABLE INT INTERVAL ISOPEN
	JAVA
	LANGUAGE LEVEL LIBRARY LIKE2 LIKE4 LIKEC LIMIT LOCAL LOOP
	MAP MEMBER MERGE MLSLABEL MONTH
	NATIONAL NATURAL NATURALN NCHAR NCLOB NEW NOCOPY NONEDITIONABLE NOTFOUND NUMERIC
	NVARCHAR2
	OBJECT OID OPEN OTHERS OUT OVERRIDING
	PACKAGE PARALLEL_ENABLE PERSISTABLE PIPE PIPELINED PLS_INTEGER POSITIVE POSITIVEN
	PRAGMA PRECISION
	RAISE RANGE REAL RECORD REF RELIES_ON REPLACE RESULT RESULT_CACHE RETURN RETURNING
	REVERSE ROLLBACK ROW ROWCOUNT ROWID ROWNUM ROWTYPE
	SAVEPOINT SECOND SELF SERIALLY_REUSABLE SHARING SIGNTYPE SIMPLE_DOUBLE SIMPLE_FLOAT
	SIMPLE_INTEGER SQL_MACRO STATIC STRING SYSDATE SYSTIMESTAMP
	TIME TIMESTAMP TIMEZONE_ABBR TIMEZONE_HOUR TIMEZONE_MINUTE TIMEZONE_REGION
	TRANSACTION TREAT TRUNCATE
	UID UNDER UROWID USER USING
	VALUE VARRAY VARYING
	WHILE WORK
	XMLTYPE
	YEAR
	ZONE
`)

// IsReserved reports whether word (any case) is reserved.
func IsReserved(word string) bool {
	_, ok := reserved[strings.ToUpper(word)]
	return ok
}

// IsKeyword reports whether word (any case) is a known non-reserved keyword.
func IsKeyword(word string) bool {
	_, ok := keywords[strings.ToUpper(word)]
	return ok
}

// LookupWord classifies an unquoted word. Reserved words win over keywords.
func LookupWord(word string) Kind {
	upper := strings.ToUpper(word)
	if _, ok := reserved[upper]; ok {
		return Reserved
	}
	if _, ok := keywords[upper]; ok {
		return Keyword
	}
	return Ident
}
