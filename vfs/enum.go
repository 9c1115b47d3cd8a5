/*
 * Copyright 2025 Adrià Giménez Pastor.
 *
 * This file is part of adriagipas/ctrvfs.
 *
 * adriagipas/ctrvfs is free software: you can redistribute it and/or
 * modify it under the terms of the GNU General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * adriagipas/ctrvfs is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with adriagipas/ctrvfs.  If not, see
 * <https://www.gnu.org/licenses/>.
 */
/*
 *  enum.go - Enumeració de fitxers i directoris amb patrons de
 *            cerca. Els patrons accepten * i ? i no distingeixen
 *            majúscules.
 */

package vfs

import (
  "fmt"
  "regexp"
  "strings"
)


/************/
/* FUNCIONS */
/************/

// Compila un patró amb * i ? a una expressió regular ancorada al nom
// sencer.
func compilePattern( pattern string ) (*regexp.Regexp,error) {

  var sb strings.Builder
  sb.WriteString ( "(?i)^" )
  for _,c:= range pattern {
    switch c {
    case '*':
      sb.WriteString ( ".*" )
    case '?':
      sb.WriteString ( "." )
    default:
      sb.WriteString ( regexp.QuoteMeta ( string(c) ) )
    }
  }
  sb.WriteString ( "$" )

  return regexp.Compile ( sb.String () )

} // end compilePattern


// Llista els fitxers del directori que encaixen amb el patró. Si
// top_directory_only és fals baixa recursivament, en profunditat. Els
// paths tornats són absoluts i amb barres cap avant.
func (self *Rom) GetFiles( path string, pattern string,
  top_directory_only bool ) ([]string,error) {

  re,err:= compilePattern ( pattern )
  if err != nil {
    return nil,fmt.Errorf ( "wrong search pattern '%s': %s", pattern, err )
  }
  segs:= splitPath ( path, self.cwd )

  var ret []string
  var visit func(segs []string) error
  visit= func(segs []string) error {

    listing,err:= self.listDir ( segs )
    if err != nil { return err }
    for _,f:= range listing.files {
      if re.MatchString ( f ) {
        ret= append(ret,joinAbs ( append(append([]string{},segs...),f) ))
      }
    }
    if !top_directory_only {
      for _,d:= range listing.dirs {
        child:= append(append([]string{},segs...),d)
        if err:= visit ( child ); err != nil { return err }
      }
    }

    return nil

  }
  if err:= visit ( segs ); err != nil { return nil,err }

  return ret,nil

} // end GetFiles


// Llista els directoris. Els paths tornats són absoluts i acaben en
// barra.
func (self *Rom) GetDirectories( path string,
  top_directory_only bool ) ([]string,error) {

  segs:= splitPath ( path, self.cwd )

  var ret []string
  var visit func(segs []string) error
  visit= func(segs []string) error {

    listing,err:= self.listDir ( segs )
    if err != nil { return err }
    for _,d:= range listing.dirs {
      child:= append(append([]string{},segs...),d)
      ret= append(ret,joinAbs ( child )+"/")
      if !top_directory_only {
        if err:= visit ( child ); err != nil { return err }
      }
    }

    return nil

  }
  if err:= visit ( segs ); err != nil { return nil,err }

  return ret,nil

} // end GetDirectories
